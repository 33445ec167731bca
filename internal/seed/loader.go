package seed

import (
	"context"
	"errors"
	"sync"

	"github.com/adupont/stockgraph/backend/internal/repository"
)

// Loader writes a generated dataset through the repository using a small
// worker pool. Nodes load before links so both endpoints of every
// relationship exist when the MERGE runs.
type Loader struct {
	repo    *repository.Repository
	workers int
}

// NewLoader creates a Loader with the provided concurrency.
func NewLoader(repo *repository.Repository, workers int) *Loader {
	if workers <= 0 {
		workers = 4
	}
	return &Loader{repo: repo, workers: workers}
}

// Load writes the dataset to the store. Nodes already present under their
// nom are left untouched.
func (l *Loader) Load(ctx context.Context, ds Dataset) error {
	if err := l.run(ctx, len(ds.Nodes), func(idx int) error {
		return l.loadNode(ctx, ds.Nodes[idx])
	}); err != nil {
		return err
	}
	return l.run(ctx, len(ds.Links), func(idx int) error {
		link := ds.Links[idx]
		return l.repo.RelateNodes(ctx, link.FromLabel, link.FromNom, link.Type, link.ToLabel, link.ToNom)
	})
}

func (l *Loader) loadNode(ctx context.Context, node Node) error {
	nom, _ := node.Props["nom"].(string)
	_, exists, err := l.repo.FindByName(ctx, node.Label, nom)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = l.repo.CreateNode(ctx, node.Label, node.Props)
	return err
}

func (l *Loader) run(ctx context.Context, total int, task func(idx int) error) error {
	if total == 0 {
		return nil
	}

	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				if err := task(idx); err != nil {
					select {
					case errCh <- err:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
