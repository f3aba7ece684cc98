package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transaction executa passos em sequência e, se um falhar, roda as
// compensações dos passos anteriores em ordem inversa. Serve para fluxos
// que atravessam mais de uma chamada de repositório sem uma tx SQL única.
type Transaction struct {
	steps []step
}

type step struct {
	name       string
	do         func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddStep registra um passo; compensate pode ser nil.
func (t *Transaction) AddStep(name string, do, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, do: do, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.do(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", s.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			logrus.WithFields(logrus.Fields{
				"step":  s.name,
				"error": err.Error(),
			}).Warn("⚠️ compensação falhou (risco de inconsistência)")
		}
	}
}
