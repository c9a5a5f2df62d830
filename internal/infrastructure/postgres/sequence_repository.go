package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo numeración sin huecos por (prefijo, año). Next debe ejecutarse
// dentro de la MISMA transacción que consume el número: si la tx hace
// rollback, el incremento también, y el número queda disponible.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el siguiente número de la serie. El FOR UPDATE
// sobre la fila de la serie serializa a los emisores concurrentes.
func (r *SequenceRepo) Next(prefix string, year int) (int64, error) {
	ctx := context.Background()
	seed := `
		INSERT INTO number_sequences (prefix, year, current_number, updated_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (prefix, year) DO NOTHING`
	if _, err := r.q.Exec(ctx, seed, prefix, year, time.Now()); err != nil {
		return 0, fmt.Errorf("seed sequence: %w", err)
	}
	var current int64
	lock := `
		SELECT current_number FROM number_sequences
		WHERE prefix = $1 AND year = $2
		FOR UPDATE`
	if err := r.q.QueryRow(ctx, lock, prefix, year).Scan(&current); err != nil {
		return 0, fmt.Errorf("lock sequence: %w", err)
	}
	next := current + 1
	update := `
		UPDATE number_sequences SET current_number = $3, updated_at = $4
		WHERE prefix = $1 AND year = $2`
	if _, err := r.q.Exec(ctx, update, prefix, year, next, time.Now()); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	return next, nil
}
