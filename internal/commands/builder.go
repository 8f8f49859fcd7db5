package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/mount"
	"saveshelf/internal/onlinecache"
	"saveshelf/internal/patch"
	"saveshelf/internal/services"
)

// Mounter acquires protected containers.
type Mounter interface {
	Acquire(ctx context.Context, containerKey string) (*mount.Handle, error)
}

// Refresher keeps per-title online lists cached.
type Refresher interface {
	Refresh(ctx context.Context, cachePath string, src onlinecache.Source) (string, error)
}

// Destinations are the storage roots offered as copy and export targets.
type Destinations struct {
	RemovableRoots []string
	UserSavesDir   string
	PSPSavesDir    string
	ArchiveDir     string
}

// Options configures a Builder.
type Options struct {
	Destinations Destinations
	PatchDir     string
	CacheDir     string
	Mount        Mounter
	Refresher    Refresher
	Patches      patch.Loader
	Logger       *slog.Logger
}

// Builder attaches command lists to entries.
type Builder struct {
	dest      Destinations
	patchDir  string
	cacheDir  string
	mount     Mounter
	refresher Refresher
	patches   patch.Loader
	logger    *slog.Logger
}

// New constructs a Builder. A nil patch loader uses patch.ScriptLoader.
func New(opts Options) *Builder {
	logger := logging.NewComponentLogger(opts.Logger, "commands")
	loader := opts.Patches
	if loader == nil {
		loader = patch.NewScriptLoader(opts.Logger)
	}
	return &Builder{
		dest:      opts.Destinations,
		patchDir:  opts.PatchDir,
		cacheDir:  opts.CacheDir,
		mount:     opts.Mount,
		refresher: opts.Refresher,
		patches:   loader,
		logger:    logger,
	}
}

// Build constructs and attaches the command list for entry. Calling it for an
// entry that is already built is a caller error and returns
// catalog.ErrBuildAlreadyDone.
func (b *Builder) Build(ctx context.Context, entry *catalog.Entry) error {
	if entry == nil {
		return errors.New("build commands: nil entry")
	}
	ctx = services.WithTitleKey(ctx, entry.TitleKey())
	logger := logging.WithContext(ctx, b.logger)

	if entry.Built() {
		err := fmt.Errorf("%w: %s %q", catalog.ErrBuildAlreadyDone, entry.Kind(), entry.Name)
		logger.Error("command list built twice", logging.Error(err))
		return err
	}

	cmds := b.fragments(ctx, entry)
	if err := entry.SetCommands(cmds); err != nil {
		logger.Error("command list built twice", logging.Error(err))
		return err
	}
	logger.Debug("commands built",
		logging.String("kind", entry.Kind().String()),
		logging.Int("commands", len(cmds)),
	)
	return nil
}

// Ensure builds entry if it has not been built yet and returns its commands.
func (b *Builder) Ensure(ctx context.Context, entry *catalog.Entry) ([]*catalog.Command, error) {
	if cmds, ok := entry.Commands(); ok {
		return cmds, nil
	}
	if err := b.Build(ctx, entry); err != nil {
		return nil, err
	}
	cmds, _ := entry.Commands()
	return cmds, nil
}

func (b *Builder) fragments(ctx context.Context, entry *catalog.Entry) []*catalog.Command {
	switch entry.Kind() {
	case catalog.KindSave:
		return b.saveCommands(ctx, entry)
	case catalog.KindTrophySet:
		return b.trophyCommands(ctx, entry)
	case catalog.KindArchiveBackup:
		return archiveCommands(entry)
	case catalog.KindOnlineOffering:
		return b.onlineCommands(ctx, entry)
	case catalog.KindMenuAggregate:
		return b.menuCommands(entry)
	default:
		return []*catalog.Command{}
	}
}

// warning builds the single inert row shown when an entry cannot be used.
func warning(text string) *catalog.Command {
	warn := string([]byte{byte(catalog.GlyphWarn)})
	return catalog.NewNotice(warn + " --- " + text + " --- " + warn)
}
