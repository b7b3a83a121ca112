// Package migrations hands the embedded session store schema to a
// migration runner. Postgres files live at the root of data/sql/migrations
// and SQLite files in its sqlite/ subdirectory.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	situm "github.com/goliatone/go-situm"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	DefaultSourceLabel = "go-situm"

	migrationsDir = "data/sql/migrations"
)

var dialectLayout = []struct {
	dialect string
	dir     string
}{
	{dialect: DialectPostgres, dir: "."},
	{dialect: DialectSQLite, dir: "sqlite"},
}

type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

type Registration struct {
	SourceLabel       string
	ValidationTargets []string
	Filesystems       []FilesystemSpec
}

type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

func WithDialectSourceLabel(label string) Option {
	return func(r *Registration) {
		if label = strings.TrimSpace(label); label != "" {
			r.SourceLabel = label
		}
	}
}

// WithValidationTargets limits registration to the named dialects.
func WithValidationTargets(targets ...string) Option {
	return func(r *Registration) {
		if normalized := normalizeDialects(targets); len(normalized) > 0 {
			r.ValidationTargets = normalized
		}
	}
}

// WithFilesystems replaces the embedded trees, e.g. with a host's own
// copy of the files.
func WithFilesystems(filesystems ...FilesystemSpec) Option {
	return func(r *Registration) {
		kept := make([]FilesystemSpec, 0, len(filesystems))
		for _, spec := range filesystems {
			spec.Dialect = strings.ToLower(strings.TrimSpace(spec.Dialect))
			if spec.Dialect == "" || spec.FS == nil {
				continue
			}
			kept = append(kept, spec)
		}
		if len(kept) > 0 {
			r.Filesystems = kept
		}
	}
}

// Filesystems resolves one tree per dialect from root, or from the embedded
// files when root is omitted. Each tree needs at least one *.up.sql file and
// a matching *.down.sql for every up file.
func Filesystems(root ...fs.FS) ([]FilesystemSpec, error) {
	source := situm.GetMigrationsFS()
	if len(root) > 0 && root[0] != nil {
		source = root[0]
	}

	out := make([]FilesystemSpec, 0, len(dialectLayout))
	for _, layout := range dialectLayout {
		dir := path.Join(migrationsDir, layout.dir)
		sub, err := fs.Sub(source, dir)
		if err != nil {
			return nil, fmt.Errorf("migrations: open %s: %w", dir, err)
		}
		ups, err := fs.Glob(sub, "*.up.sql")
		if err != nil {
			return nil, fmt.Errorf("migrations: list %s: %w", dir, err)
		}
		if len(ups) == 0 {
			return nil, fmt.Errorf("migrations: no %s migrations under %s", layout.dialect, dir)
		}
		if err := requireDownFiles(sub, ups); err != nil {
			return nil, fmt.Errorf("migrations: %s: %w", dir, err)
		}
		out = append(out, FilesystemSpec{Dialect: layout.dialect, Path: dir, FS: sub})
	}
	return out, nil
}

// Register calls registerFn once for every filesystem whose dialect is a
// validation target, in layout order.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	if registerFn == nil {
		return Registration{}, fmt.Errorf("migrations: register function is required")
	}
	filesystems, err := Filesystems()
	if err != nil {
		return Registration{}, err
	}

	reg := Registration{
		SourceLabel:       DefaultSourceLabel,
		ValidationTargets: []string{DialectPostgres, DialectSQLite},
		Filesystems:       filesystems,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}

	for _, spec := range reg.Filesystems {
		if !slices.Contains(reg.ValidationTargets, spec.Dialect) {
			continue
		}
		if err := registerFn(ctx, spec.Dialect, reg.SourceLabel, spec.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s from %s: %w", spec.Dialect, spec.Path, err)
		}
	}
	return reg, nil
}

func requireDownFiles(fsys fs.FS, ups []string) error {
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(fsys, down); err != nil {
			return fmt.Errorf("%s has no matching %s", up, down)
		}
	}
	return nil
}

func normalizeDialects(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || slices.Contains(out, value) {
			continue
		}
		out = append(out, value)
	}
	return out
}
