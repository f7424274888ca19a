// Package cmd implements the mm command-line interface.
package cmd

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/term"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
	bsfs "github.com/kecbigmt/mm-sub003/internal/blobstore/filesystem"
	"github.com/kecbigmt/mm-sub003/internal/config"
	"github.com/kecbigmt/mm-sub003/internal/index"
	"github.com/kecbigmt/mm-sub003/internal/itemstore"
	isfs "github.com/kecbigmt/mm-sub003/internal/itemstore/filesystem"
)

// App holds application state shared across commands.
type App struct {
	Blobs        blobstore.Store
	Items        itemstore.Store
	Config       config.Config
	WorkspaceDir string // path to .mm directory
	Out          io.Writer
	Err          io.Writer
	JSON         bool // output in JSON format
}

// Rebuilder returns the index rebuilder for this workspace.
func (a *App) Rebuilder() *index.Rebuilder {
	return index.NewRebuilder(a.Blobs, index.SHA256Hasher{})
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout is a
// terminal, otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stdout is a
// terminal, otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if f, ok := a.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[38;5;214m" + s + "\033[0m"
	}
	return s
}

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	WorkspacePath string
	JSONOutput    bool
	Out           io.Writer
	Err           io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	if p.app != nil {
		p.app.JSON = p.JSONOutput
	}
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		Out: app.Out,
		Err: app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	wsDir, err := config.FindWorkspaceDir(p.WorkspacePath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(filepath.Join(wsDir, config.ConfigFileName))
	if err != nil {
		return nil, err
	}

	blobs := bsfs.New(wsDir)

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	return &App{
		Blobs:        blobs,
		Items:        isfs.New(blobs),
		Config:       cfg,
		WorkspaceDir: wsDir,
		Out:          out,
		Err:          errOut,
	}, nil
}
