// Package viewer serves an interactive profile of a built timeline over HTTP.
package viewer

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"

	"github.com/sanjams2/sfn-profiler/sfn"
	"github.com/sanjams2/sfn-profiler/timeline"
	"github.com/sanjams2/sfn-profiler/viewer/web"
)

// A Viewer turns a built timeline into a local web server.
type Viewer struct {
	model       *timeline.Model
	info        *sfn.ExecutionInfo
	portNumber  int
	openBrowser bool
}

// NewViewer creates a viewer for the given model.
func NewViewer(m *timeline.Model) *Viewer {
	return &Viewer{model: m}
}

// WithPortNumber sets the port number of the viewer server.
func (v *Viewer) WithPortNumber(portNumber int) *Viewer {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the viewer server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	v.portNumber = portNumber

	return v
}

// WithExecutionInfo adds the provider-reported execution metadata to the
// profile summary.
func (v *Viewer) WithExecutionInfo(info sfn.ExecutionInfo) *Viewer {
	v.info = &info

	return v
}

// WithBrowser makes the viewer open the system browser once it is serving.
func (v *Viewer) WithBrowser() *Viewer {
	v.openBrowser = true

	return v
}

// A Summary condenses a model into the headline numbers shown on the profile
// page.
type Summary struct {
	ExecutionID      string                `json:"execution_id"`
	Start            time.Time             `json:"start"`
	End              time.Time             `json:"end"`
	Duration         string                `json:"duration"`
	TaskCount        int                   `json:"task_count"`
	LaneCount        int                   `json:"lane_count"`
	ContributorCount int                   `json:"contributor_count"`
	Execution        *sfn.ExecutionInfo    `json:"execution,omitempty"`
	Ranked           []timeline.RankedTask `json:"ranked_contributors"`
	RankedWithLoops  []timeline.RankedTask `json:"ranked_with_loops"`
	Warnings         []timeline.Warning    `json:"warnings,omitempty"`
}

// Run starts the server, optionally opens the browser, and blocks until the
// server stops.
func (v *Viewer) Run() error {
	actualPort := ":0"
	if v.portNumber != 0 {
		actualPort = ":" + strconv.Itoa(v.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return fmt.Errorf("viewer: listen: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Serving profile of %s at %s\n",
		v.model.ExecutionID, url)

	if v.openBrowser {
		go func() {
			if err := browser.OpenURL(url); err != nil {
				log.Printf("viewer: open browser: %s", err)
			}
		}()
	}

	return http.Serve(listener, v.router())
}

func (v *Viewer) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/timeline", v.serveTimeline)
	r.HandleFunc("/api/ranking", v.serveRanking)
	r.HandleFunc("/api/summary", v.serveSummary)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

func (v *Viewer) serveTimeline(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, v.model)
}

func (v *Viewer) serveRanking(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]timeline.RankedTask{
		"ranked_contributors": v.model.Ranked,
		"ranked_with_loops":   v.model.RankedWithLoops,
	})
}

func (v *Viewer) serveSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, v.summarize())
}

func (v *Viewer) summarize() Summary {
	s := Summary{
		ExecutionID:     v.model.ExecutionID,
		Start:           v.model.Start(),
		End:             v.model.End(),
		Duration:        v.model.Duration().String(),
		Execution:       v.info,
		LaneCount:       len(v.model.AllLanes()),
		Ranked:          v.model.Ranked,
		RankedWithLoops: v.model.RankedWithLoops,
		Warnings:        v.model.Warnings,
	}

	contributors := map[string]bool{}
	for _, lane := range v.model.AllLanes() {
		for _, it := range lane.Items {
			s.TaskCount++

			if it.Contributor && it.Span != nil {
				contributors[it.Span.ExecutionID] = true
			}
			if agg := it.Aggregate; agg != nil {
				for _, c := range agg.Contributors {
					contributors[c] = true
				}
			}
		}
	}
	s.ContributorCount = len(contributors)

	return s
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Printf("viewer: write response: %s", err)
	}
}
