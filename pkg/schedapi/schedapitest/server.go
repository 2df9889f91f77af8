// Package schedapitest provides an in-memory schedule service for tests.
package schedapitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/dayplan/dayplan/pkg/schedule"
)

// Server is a fake schedule service. Dates are opaque keys; the current day
// is whatever Today is set to.
type Server struct {
	*httptest.Server

	mu    sync.Mutex
	Today string
	days  map[string]schedule.Schedule
	seq   map[string]int
	// Hook, when set, runs before every request and may write its own reply
	// by returning true.
	Hook func(w http.ResponseWriter, r *http.Request) bool
}

// NewServer starts a fake service whose current day is today.
func NewServer(today string) *Server {
	s := &Server{
		Today: today,
		days:  make(map[string]schedule.Schedule),
		seq:   make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Put stores a task under date and returns its period key.
func (s *Server) Put(date string, t schedule.Task) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(date, &t)
}

// Day returns a copy of the stored schedule for date.
func (s *Server) Day(date string) schedule.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days[date].Clone()
}

func (s *Server) put(date string, t *schedule.Task) string {
	if s.days[date] == nil {
		s.days[date] = schedule.Schedule{}
	}
	s.seq[date]++
	id := fmt.Sprintf("%s_%03d", date, s.seq[date])
	if t.Subtasks == nil {
		t.Subtasks = []string{}
	}
	s.days[date][id] = t
	return id
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if s.Hook != nil && s.Hook(w, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && path == "health":
		writeJSON(w, 200, map[string]string{"status": "healthy"})
	case r.Method == http.MethodGet && path == "schedule":
		writeJSON(w, 200, s.orEmpty(s.Today))
	case r.Method == http.MethodGet && path == "schedule/available_dates":
		dates := make([]string, 0, len(s.days))
		for d := range s.days {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		writeJSON(w, 200, map[string][]string{"dates": dates})
	case r.Method == http.MethodGet && strings.HasPrefix(path, "schedule/"):
		writeJSON(w, 200, s.orEmpty(strings.TrimPrefix(path, "schedule/")))
	case r.Method == http.MethodPost && path == "add_task":
		s.addTask(w, r)
	case r.Method == http.MethodPost && path == "schedule/copy":
		s.copySchedule(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "delete_task/"):
		s.deleteTask(w, strings.TrimPrefix(path, "delete_task/"))
	default:
		writeJSON(w, 404, map[string]string{"error": "Not found"})
	}
}

func (s *Server) orEmpty(date string) schedule.Schedule {
	if d, ok := s.days[date]; ok {
		return d
	}
	return schedule.Schedule{}
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "Invalid JSON"})
		return
	}
	var (
		req    schedule.NewTaskRequest
		fields map[string]json.RawMessage
	)
	if json.Unmarshal(body, &req) != nil || json.Unmarshal(body, &fields) != nil {
		writeJSON(w, 400, map[string]string{"error": "Invalid JSON"})
		return
	}
	if req.Name == "" || req.StartTime == "" || req.EndTime == "" {
		writeJSON(w, 400, map[string]string{"error": "Missing required fields"})
		return
	}
	// Only an absent date means today; an empty one is stored as given.
	date := req.Date
	if _, ok := fields["date"]; !ok {
		date = s.Today
	}
	n := req.Notification
	id := s.put(date, &schedule.Task{
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Subtasks:     req.Subtasks,
		Notification: &n,
	})
	writeJSON(w, 201, map[string]string{"message": "Task added successfully", "task_id": id})
}

func (s *Server) deleteTask(w http.ResponseWriter, id string) {
	for _, day := range s.days {
		if _, ok := day[id]; ok {
			delete(day, id)
			writeJSON(w, 200, map[string]string{"message": "Task deleted successfully"})
			return
		}
	}
	writeJSON(w, 404, map[string]string{"error": "Task not found"})
}

func (s *Server) copySchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceDate string `json:"source_date"`
		TargetDate string `json:"target_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SourceDate == "" || req.TargetDate == "" {
		writeJSON(w, 400, map[string]string{"status": "error", "message": "Source and target dates are required"})
		return
	}
	src, ok := s.days[req.SourceDate]
	if !ok || len(src) == 0 {
		writeJSON(w, 404, map[string]string{"status": "error", "message": "No tasks found for source date"})
		return
	}
	dst := schedule.Schedule{}
	s.seq[req.TargetDate] = 0
	s.days[req.TargetDate] = dst
	for _, k := range src.Keys() {
		c := src.Clone()[k]
		s.put(req.TargetDate, c)
	}
	writeJSON(w, 200, map[string]string{"status": "success", "message": "Schedule copied successfully"})
}
