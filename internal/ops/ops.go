// Package ops implements the request operations shared by the CLI, the MCP server
// and the HTTP API.
package ops

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/auth"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/config"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/document"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/store"
)

// AppName is reported by Info.
const AppName = "extractorsim"

// Version is set by the binary at startup.
var Version = "dev"

// Deps bundles the collaborators every operation may need.
type Deps struct {
	Store    *store.Store
	Auth     auth.Authenticator
	Renderer *document.Renderer

	// Chooser picks the destination of exports when no path is given.
	Chooser document.PathChooser

	Config *config.Config
	Log    zerolog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// MessageOutput is the result of a mutating operation.
type MessageOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// FailureOutput is how every failed operation crosses a boundary.
type FailureOutput struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Failure converts err into a FailureOutput. INTERNAL and IO_ERROR messages are not exposed.
func Failure(err error) *FailureOutput {
	appErr := errors.As(err)
	if appErr == nil {
		appErr = errors.NewInternal(nil)
	}
	return &FailureOutput{OK: false, Error: appErr.PublicMessage(), Code: string(appErr.Code)}
}

// InfoOutput describes the running application.
type InfoOutput struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	DataDir  string `json:"dataDir"`
}

// Info reports application metadata.
func Info(d *Deps) *InfoOutput {
	out := &InfoOutput{
		Name:     AppName,
		Version:  Version,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if d != nil && d.Store != nil {
		out.DataDir = d.Store.Dir()
	}
	return out
}
