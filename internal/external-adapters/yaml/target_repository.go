package yaml

import (
	"context"
	"fmt"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
)

// TargetRepository implements repositories.TargetRepository from a YAML
// targets file, or the built-in targets when no file is configured
type TargetRepository struct {
	targetsFile string
	parser      *TargetParser
}

// NewTargetRepository creates a new YAML-based target repository.
// An empty targetsFile selects DefaultTargets.
func NewTargetRepository(targetsFile, outputDir string) *TargetRepository {
	return &TargetRepository{
		targetsFile: targetsFile,
		parser:      NewTargetParser(outputDir),
	}
}

// GetTarget retrieves a target by name
func (r *TargetRepository) GetTarget(ctx context.Context, name string) (*entities.FetchTarget, error) {
	targets, err := r.ListTargets(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range targets {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("target not found: %s", name)
}

// ListTargets returns all configured targets. Environment variables are read
// on every call.
func (r *TargetRepository) ListTargets(_ context.Context) ([]*entities.FetchTarget, error) {
	if r.targetsFile == "" {
		return r.parser.Parse([]byte(DefaultTargets))
	}
	return r.parser.ParseFile(r.targetsFile)
}
