package contactrepo

import "errors"

var ErrNotFound = errors.New("contact not found")
