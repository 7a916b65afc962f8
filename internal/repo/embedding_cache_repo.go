package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/didi/gendry/builder"
	"github.com/pgvector/pgvector-go"

	"github.com/NIKHIL-58/AI-ML/internal/model"
	"github.com/NIKHIL-58/AI-ML/internal/pkg/dbutil"
)

const embeddingCacheUpsert = ` ON CONFLICT (model_name, task_type, content_hash) DO UPDATE SET
	embedding = EXCLUDED.embedding,
	ctime = EXCLUDED.ctime`

type EmbeddingCacheRepo struct {
	db *sql.DB
}

func NewEmbeddingCacheRepo(db *sql.DB) *EmbeddingCacheRepo {
	return &EmbeddingCacheRepo{db: db}
}

func (r *EmbeddingCacheRepo) Get(ctx context.Context, modelName, taskType, contentHash string) ([]float32, bool, error) {
	where := map[string]interface{}{
		"model_name":   modelName,
		"task_type":    taskType,
		"content_hash": contentHash,
	}
	sqlStr, args, err := builder.BuildSelect("embedding_cache", where, []string{"embedding"})
	if err != nil {
		return nil, false, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var embedding pgvector.Vector
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&embedding); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, dbutil.Classify("get embedding cache", err)
	}
	return embedding.Slice(), true, nil
}

// Save inserts the embedding or refreshes an existing row for the same key.
func (r *EmbeddingCacheRepo) Save(ctx context.Context, item *model.EmbeddingCache) error {
	sqlStr, args, err := builder.BuildInsert("embedding_cache", []map[string]interface{}{{
		"model_name":   item.ModelName,
		"task_type":    item.TaskType,
		"content_hash": item.ContentHash,
		"embedding":    pgvector.NewVector(item.Embedding),
		"ctime":        item.Ctime,
	}})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+embeddingCacheUpsert, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return dbutil.Classify("save embedding cache", err)
	}
	return nil
}

// DeleteBefore removes cache rows created before cutoff (unix seconds).
func (r *EmbeddingCacheRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	sqlStr, args, err := builder.BuildDelete("embedding_cache", map[string]interface{}{"ctime <": cutoff})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, dbutil.Classify("delete embedding cache", err)
	}
	return res.RowsAffected()
}
