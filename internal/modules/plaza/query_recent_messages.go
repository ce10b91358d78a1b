package plaza

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/plaza-go/internal/modules/core"

	"github.com/eskrenkovic/tql"
)

const defaultHistoryLimit = 50

// GetRecentMessagesQuery returns the newest plaza chat lines, oldest first.
type GetRecentMessagesQuery struct {
	Limit int
}

func HandleGetRecentMessages(w http.ResponseWriter, r *http.Request) {
	query := GetRecentMessagesQuery{Limit: defaultHistoryLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			core.WriteBadRequest(w, r, err)
			return
		}
		query.Limit = limit
	}

	messages, err := mediator.Send[GetRecentMessagesQuery, []ChatMessage](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, messages)
}

type GetRecentMessagesQueryHandler struct {
	db *sql.DB
}

func NewGetRecentMessagesQueryHandler(db *sql.DB) *GetRecentMessagesQueryHandler {
	return &GetRecentMessagesQueryHandler{db}
}

func (h *GetRecentMessagesQueryHandler) Handle(
	ctx context.Context,
	request GetRecentMessagesQuery,
) ([]ChatMessage, error) {
	const query = `
		SELECT
			id, user_id, username, message, created_at
		FROM (
			SELECT
				id, user_id, username, message, created_at
			FROM
				plaza_message
			ORDER BY
				created_at DESC
			LIMIT $1
		) recent
		ORDER BY
			created_at ASC;`
	return tql.Query[ChatMessage](ctx, h.db, query, request.Limit)
}
