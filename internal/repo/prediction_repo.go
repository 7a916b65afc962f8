package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/didi/gendry/builder"
	"github.com/didi/gendry/scanner"

	"github.com/NIKHIL-58/AI-ML/internal/model"
	"github.com/NIKHIL-58/AI-ML/internal/pkg/dbutil"
)

type PredictionRepo struct {
	db *sql.DB
}

func NewPredictionRepo(db *sql.DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

func (r *PredictionRepo) Save(ctx context.Context, p *model.Prediction) error {
	sqlStr, args, err := builder.BuildInsert("reviews", []map[string]interface{}{{
		"text":       p.Text,
		"sentiment":  p.Sentiment,
		"confidence": p.Confidence,
		"ctime":      p.Ctime,
	}})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr+" RETURNING id", args)
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&p.ID); err != nil {
		return dbutil.Classify("save prediction", err)
	}
	return nil
}

// List returns the most recent predictions, newest first.
func (r *PredictionRepo) List(ctx context.Context, limit int) ([]model.Prediction, error) {
	where := map[string]interface{}{"_orderby": "id DESC"}
	if limit > 0 {
		where["_limit"] = []uint{0, uint(limit)}
	}
	sqlStr, args, err := builder.BuildSelect("reviews", where, []string{"id", "text", "sentiment", "confidence", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, dbutil.Classify("list predictions", err)
	}
	items := make([]model.Prediction, 0)
	if err := scanner.ScanClose(rows, &items); err != nil && !errors.Is(err, scanner.ErrEmptyResult) {
		return nil, dbutil.Classify("scan predictions", err)
	}
	return items, nil
}
