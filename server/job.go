package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	ppttranslator "github.com/engchina/No.1-PPT-Translator"
	"github.com/engchina/No.1-PPT-Translator/logging"
	"github.com/google/uuid"
)

// JobState is the coarse lifecycle state of a translation job.
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobStopped   JobState = "stopped"
	JobFailed    JobState = "failed"
)

// terminal reports whether a job in this state is finished.
func (s JobState) terminal() bool {
	switch s {
	case JobCompleted, JobStopped, JobFailed:
		return true
	default:
		return false
	}
}

// CreateJobRequest is the body of POST /api/v1/jobs. Model and TargetLanguage
// fall back to the manager's defaults when empty.
type CreateJobRequest struct {
	InputPath      string `json:"input_path"`
	Model          string `json:"model"`
	TargetLanguage string `json:"target_language"`
}

// JobSnapshot is the JSON view of a job returned by GET /api/v1/jobs/{id}.
type JobSnapshot struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Progress   int    `json:"progress"`
	Status     string `json:"status"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// Job is one translation run executing in the background. It implements
// ppttranslator.Observer: pipeline events update the snapshot and fan out to
// WebSocket subscribers through the job's hub.
type Job struct {
	ID        string
	CreatedAt time.Time

	hub  *Hub
	stop atomic.Bool

	mu         sync.Mutex
	state      JobState
	progress   int
	status     string
	outputPath string
	errMsg     string
}

func newJob() *Job {
	id := uuid.NewString()
	j := &Job{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		hub:       newHub(id),
		state:     JobQueued,
	}
	go j.hub.Run()
	return j
}

// OnProgress implements ppttranslator.Observer.
func (j *Job) OnProgress(percent int) {
	j.mu.Lock()
	j.progress = percent
	j.mu.Unlock()

	j.hub.Broadcast(Event{Type: "progress", Progress: percent})
}

// OnStatus implements ppttranslator.Observer.
func (j *Job) OnStatus(status string) {
	j.mu.Lock()
	j.status = status
	j.mu.Unlock()

	j.hub.Broadcast(Event{Type: "status", Message: status})
}

// OnLog implements ppttranslator.Observer.
func (j *Job) OnLog(line string) {
	j.hub.Broadcast(Event{Type: "log", Message: line})
}

// ShouldStop implements ppttranslator.Observer.
func (j *Job) ShouldStop() bool {
	return j.stop.Load()
}

// Stop asks the job to abort at the next slide boundary.
func (j *Job) Stop() {
	j.stop.Store(true)
}

// Snapshot returns the job's current JSON view.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	return JobSnapshot{
		ID:         j.ID,
		State:      string(j.state),
		Progress:   j.progress,
		Status:     j.status,
		OutputPath: j.outputPath,
		Error:      j.errMsg,
		CreatedAt:  j.CreatedAt.Format(time.RFC3339),
	}
}

// State returns the job's lifecycle state.
func (j *Job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// setState records a state change and broadcasts it.
func (j *Job) setState(state JobState) {
	j.mu.Lock()
	j.state = state
	j.mu.Unlock()

	j.hub.Broadcast(Event{Type: "state", State: string(state)})
}

// finish records the terminal state together with its outcome fields.
func (j *Job) finish(state JobState, outputPath, errMsg string) {
	j.mu.Lock()
	j.state = state
	j.outputPath = outputPath
	j.errMsg = errMsg
	j.mu.Unlock()

	j.hub.Broadcast(Event{Type: "state", State: string(state)})
}

// stateEvent returns the event a late subscriber receives on connect.
func (j *Job) stateEvent() Event {
	snap := j.Snapshot()
	return Event{Type: "state", State: snap.State, Progress: snap.Progress}
}

// JobManager owns all jobs and bounds how many run concurrently. Completed
// jobs stay queryable for the manager's lifetime.
type JobManager struct {
	base            ppttranslator.PipelineConfig
	defaultModel    string
	defaultLanguage string
	sem             chan struct{}

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobManager creates a manager running at most maxJobs pipelines at once.
// The base configuration's Observer is ignored; each job installs itself.
func NewJobManager(base ppttranslator.PipelineConfig, maxJobs int, defaultModel, defaultLanguage string) *JobManager {
	if maxJobs < 1 {
		maxJobs = 1
	}
	if defaultModel == "" {
		defaultModel = ppttranslator.SupportedModels[0]
	}
	if defaultLanguage == "" {
		defaultLanguage = ppttranslator.DefaultTargetLanguage
	}

	return &JobManager{
		base:            base,
		defaultModel:    defaultModel,
		defaultLanguage: defaultLanguage,
		sem:             make(chan struct{}, maxJobs),
		jobs:            make(map[string]*Job),
	}
}

// Create registers a new job and starts it in the background.
func (m *JobManager) Create(req CreateJobRequest) *Job {
	if req.Model == "" {
		req.Model = m.defaultModel
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = m.defaultLanguage
	} else {
		req.TargetLanguage = ppttranslator.ResolveLanguage(req.TargetLanguage)
	}

	job := newJob()

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	logging.JobEvent(job.ID, "created",
		"input", req.InputPath,
		"model", req.Model,
		"target_language", req.TargetLanguage)

	go m.run(job, req)
	return job
}

// Get retrieves a job by ID.
func (m *JobManager) Get(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	return job, ok
}

// StopAll flags every unfinished job to stop.
func (m *JobManager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, job := range m.jobs {
		if !job.State().terminal() {
			job.Stop()
		}
	}
}

// run executes one job once a concurrency slot frees up.
func (m *JobManager) run(job *Job, req CreateJobRequest) {
	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	if job.ShouldStop() {
		job.finish(JobStopped, "", "")
		logging.JobEvent(job.ID, "stopped_before_start")
		return
	}

	job.setState(JobRunning)
	logging.JobEvent(job.ID, "started")

	cfg := m.base
	cfg.Observer = job
	pipe := ppttranslator.NewPipeline(cfg)

	result, err := pipe.Run(context.Background(), req.Model, req.InputPath, req.TargetLanguage)
	switch {
	case err == nil:
		job.finish(JobCompleted, result.OutputPath, "")
		logging.JobEvent(job.ID, "completed",
			"output", result.OutputPath,
			"slides", result.Slides,
			"units", result.Units)
	case errors.Is(err, ppttranslator.ErrStopped):
		job.finish(JobStopped, "", "")
		logging.JobEvent(job.ID, "stopped")
	default:
		job.finish(JobFailed, "", err.Error())
		logging.JobEvent(job.ID, "failed", "error", err.Error())
	}
}

var _ ppttranslator.Observer = (*Job)(nil)
