package domain

// UserID identifies a chat-platform user. We model it as an opaque
// identifier: its format is controlled by the platform gateway.
type UserID string

// ChannelID identifies a chat channel (or DM target) on the platform.
type ChannelID string

// TripID is the store-assigned identifier for a persisted trip record.
// It is immutable once assigned.
type TripID int64

// ContactID is the store-assigned identifier for an emergency contact.
type ContactID int64
