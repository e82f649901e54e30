package helpdex

// Phase identifies the stage of a sync pass a progress event refers to.
type Phase string

// Sync phases, in pipeline order.
const (
	PhaseFetching  Phase = "fetching"
	PhaseParsing   Phase = "parsing"
	PhaseChunking  Phase = "chunking"
	PhaseEmbedding Phase = "embedding"
	PhaseStoring   Phase = "storing"
)

// Progress reports phased progress during a sync pass.
type Progress struct {
	Phase   Phase
	Current int
	Total   int
	Message string
}

// ProgressFunc is called as a sync pass proceeds. Implementations must not
// block; they are invoked synchronously from the sync loop.
type ProgressFunc func(Progress)
