package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/NIKHIL-58/AI-ML/internal/model"
	"github.com/NIKHIL-58/AI-ML/internal/pkg/dbutil"
)

var messageFields = []string{"id", "role", "content", "timestamp"}

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Save appends a message and returns it with the id and timestamp assigned
// by the database.
func (r *MessageRepo) Save(ctx context.Context, role, content string) (*model.ChatMessage, error) {
	sqlStr, args, err := builder.BuildInsert("chat_messages", []map[string]interface{}{{
		"role":    role,
		"content": content,
	}})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id, timestamp", args)
	msg := &model.ChatMessage{Role: role, Content: content}
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&msg.ID, &msg.Timestamp); err != nil {
		return nil, dbutil.Classify("save chat message", err)
	}
	return msg, nil
}

// List returns messages oldest first. A positive limit keeps only the most
// recent limit messages.
func (r *MessageRepo) List(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	sqlStr, args, err := buildListMessages(limit)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, dbutil.Classify("list chat messages", err)
	}
	defer rows.Close()
	messages := make([]model.ChatMessage, 0)
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, dbutil.Classify("scan chat message", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, dbutil.Classify("list chat messages", err)
	}
	if limit > 0 {
		// fetched newest first
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	return messages, nil
}

func buildListMessages(limit int) (string, []interface{}, error) {
	where := map[string]interface{}{"_orderby": "timestamp ASC, id ASC"}
	if limit > 0 {
		where["_orderby"] = "timestamp DESC, id DESC"
		where["_limit"] = []uint{0, uint(limit)}
	}
	fields := append([]string(nil), messageFields...)
	sqlStr, args, err := builder.BuildSelect("chat_messages", where, fields)
	if err != nil {
		return "", nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return sqlStr, args, nil
}
