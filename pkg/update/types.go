package update

import (
	"github.com/pf4j/pf4j-update/pkg/download"
	"github.com/pf4j/pf4j-update/pkg/repository"
	"github.com/pf4j/pf4j-update/pkg/verify"
	"github.com/pf4j/pf4j-update/pkg/version"
)

// DefaultConcurrency bounds how many repositories are read in parallel.
const DefaultConcurrency = 4

// Phase names a step of an install, update or uninstall.
type Phase string

const (
	PhaseResolving   Phase = "resolving"
	PhaseDownloading Phase = "downloading"
	PhaseVerifying   Phase = "verifying"
	PhaseStaging     Phase = "staging"
	PhaseDelegating  Phase = "delegating"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Event represents a simple progress notification.
type Event struct {
	Phase    Phase
	PluginID string
	Msg      string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Options configure a Manager.
type Options struct {
	// Repositories are consulted in order; for a plugin id present in several
	// of them the later repository wins.
	Repositories []repository.Repository
	// RepositoriesFile is an optional repositories.json that is appended to
	// Repositories and re-read on Refresh.
	RepositoriesFile string
	// RepositoryOptions apply to repositories created from RepositoriesFile
	// and AddRepositoryURL.
	RepositoryOptions []repository.Option

	// Oracle defaults to semantic versioning.
	Oracle version.Oracle
	// HostVersion overrides the lifecycle manager's host version.
	HostVersion string

	// Downloader and Verifier are used when the supplying repository has no
	// override. They default to download.SimpleDownloader and verify.Default.
	Downloader download.Downloader
	Verifier   verify.Verifier

	Concurrency int
	Hooks       Hooks
}
