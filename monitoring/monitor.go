// Package monitoring serves the progress of a generation run and the recorded
// design points over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/xenon/manifest"
	"github.com/sarchlab/xenon/monitoring/web"
	"github.com/sarchlab/xenon/sweep"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a generation run into a server that reports its progress.
type Monitor struct {
	portNumber int
	sweep      *sweep.Sweep
	points     manifest.DataReader

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		log.Printf("[WARNING] Port number %d is assigned to the monitoring "+
			"server, which is not allowed. Using a random port instead.",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterSweep sets the sweep served under /api/sweep.
func (m *Monitor) RegisterSweep(s *sweep.Sweep) {
	m.sweep = s
}

// RegisterManifest sets the manifest served under /api/points.
func (m *Monitor) RegisterManifest(r manifest.DataReader) {
	m.points = r
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/sweep", m.serializeSweep)
	r.HandleFunc("/api/sweep/{field}", m.serializeSweep)
	r.HandleFunc("/api/points", m.listPoints)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring generation with %s\n", url)

	go func() {
		err := http.Serve(listener, m.router())
		dieOnErr(err)
	}()

	return url
}

// OpenInBrowser opens the monitoring page in the default browser.
func OpenInBrowser(url string) {
	err := browser.OpenURL(url)
	if err != nil {
		log.Printf("[WARNING] failed to open %s: %v", url, err)
	}
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bytes, err := json.Marshal(m.progressBars)
	m.progressBarsLock.Unlock()
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) serializeSweep(w http.ResponseWriter, r *http.Request) {
	if m.sweep == nil {
		http.Error(w, "No sweep registered", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.sweep)
	serializer.SetMaxDepth(2)

	if field, ok := mux.Vars(r)["field"]; ok {
		err := serializer.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := serializer.Serialize(w)
	dieOnErr(err)
}

type pointsRsp struct {
	Total  int                   `json:"total"`
	Points []manifest.PointEntry `json:"points"`
}

func (m *Monitor) listPoints(w http.ResponseWriter, r *http.Request) {
	if m.points == nil {
		http.Error(w, "No manifest registered", http.StatusNotFound)
		return
	}

	query, err := pointsQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	points, total, err := manifest.ReadPoints(r.Context(), m.points, query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bytes, err := json.Marshal(pointsRsp{Total: total, Points: points})
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func pointsQuery(r *http.Request) (manifest.QueryParams, error) {
	query := manifest.QueryParams{OrderBy: "RunID, PointIndex, Benchmark"}
	values := r.URL.Query()

	var conds []string
	for _, column := range []string{"RunID", "Benchmark", "Label"} {
		v := values.Get(strings.ToLower(column))
		if v == "" {
			continue
		}

		conds = append(conds, column+" = ?")
		query.Args = append(query.Args, v)
	}

	query.Where = strings.Join(conds, " AND ")

	var err error

	query.Limit, err = intQueryValue(values.Get("limit"))
	if err != nil {
		return query, err
	}

	query.Offset, err = intQueryValue(values.Get("offset"))

	return query, err
}

func intQueryValue(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	return n, nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	process, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	bytes, err := json.Marshal(resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second
	if s := r.URL.Query().Get("seconds"); s != "" {
		n, err := intQueryValue(s)
		if err != nil || n == 0 {
			http.Error(w, fmt.Sprintf("invalid duration %q", s),
				http.StatusBadRequest)
			return
		}

		duration = time.Duration(n) * time.Second
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	sleep(r.Context(), duration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
