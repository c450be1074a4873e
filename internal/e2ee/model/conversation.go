package models

import (
	"time"

	"github.com/google/uuid"
)

// DirectConversation is a 1:1 conversation between two users. Consumed by
// encryption enablement to mint a key for every existing direct conversation.
type DirectConversation struct {
	ID      uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	User1ID uuid.UUID `bun:",notnull,type:uuid"`
	User2ID uuid.UUID `bun:",notnull,type:uuid"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`

	// Unique index in migration:
	// CREATE UNIQUE INDEX idx_direct_pair ON direct_conversations(least(user1_id,user2_id), greatest(user1_id,user2_id));
}

// ConversationMember is the external membership table this core consumes to
// resolve key recipients. Owned by the conversation feature, read-only here.
type ConversationMember struct {
	ConversationID uuid.UUID `bun:",pk,type:uuid"`
	UserID         uuid.UUID `bun:",pk,type:uuid"`

	JoinedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
