package contactrepo

import (
	"testing"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/contracttest"
	contactrepoport "github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/contactrepo"
)

func TestContract_MemoryContactRepo(t *testing.T) {
	contracttest.RunContactRepo(t, func(t *testing.T) (contactrepoport.Repository, contracttest.CleanupFunc) {
		t.Helper()
		return NewRepo(), nil
	})
}
