// Package httpclient adapts the course-content and student-directory services — external
// collaborators the core only reads from (spec §1 non-goals) — into allocengine.CourseCatalog
// and allocengine.StudentDirectory over plain HTTP/JSON, since neither owns a wire protocol the
// teacher or the rest of the example pack already has a client library for.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brightpath/platform/pkg/allocengine"
	"github.com/brightpath/platform/pkg/platformerr"
)

const defaultTimeout = 5 * time.Second

// Client is a minimal JSON-over-HTTP caller shared by CourseCatalog and StudentDirectory.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client targeting baseURL.
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: defaultTimeout}}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return platformerr.TransientDependencyError{Dependency: c.baseURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}

	if resp.StatusCode >= 500 {
		return platformerr.TransientDependencyError{Dependency: c.baseURL, Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: unexpected status %d from %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var errNotFound = fmt.Errorf("httpclient: resource not found")

// CourseCatalog implements allocengine.CourseCatalog against the course-content service.
type CourseCatalog struct{ client *Client }

// NewCourseCatalog returns an allocengine.CourseCatalog backed by the service at baseURL.
func NewCourseCatalog(baseURL string) *CourseCatalog {
	return &CourseCatalog{client: New(baseURL)}
}

type courseResponse struct {
	ID          string   `json:"id"`
	Specialties []string `json:"specialties"`
}

// GetCourse implements allocengine.CourseCatalog.
func (c *CourseCatalog) GetCourse(ctx context.Context, courseID string) (allocengine.Course, error) {
	var resp courseResponse

	if err := c.client.getJSON(ctx, "/courses/"+courseID, &resp); err != nil {
		if err == errNotFound {
			return allocengine.Course{}, platformerr.InvalidEvent{Reason: "unknown courseId: " + courseID}
		}

		return allocengine.Course{}, err
	}

	return allocengine.Course{ID: resp.ID, Specialties: resp.Specialties}, nil
}

// StudentDirectory implements allocengine.StudentDirectory against the student-directory service.
type StudentDirectory struct{ client *Client }

// NewStudentDirectory returns an allocengine.StudentDirectory backed by the service at baseURL.
func NewStudentDirectory(baseURL string) *StudentDirectory {
	return &StudentDirectory{client: New(baseURL)}
}

type studentResponse struct {
	ID   string `json:"id"`
	Home struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"home"`
	Zone             string `json:"zone"`
	GenderPreference string `json:"genderPreference"`
}

// GetStudent implements allocengine.StudentDirectory.
func (s *StudentDirectory) GetStudent(ctx context.Context, studentID string) (allocengine.Student, error) {
	var resp studentResponse

	if err := s.client.getJSON(ctx, "/students/"+studentID, &resp); err != nil {
		if err == errNotFound {
			return allocengine.Student{}, platformerr.InvalidEvent{Reason: "unknown studentId: " + studentID}
		}

		return allocengine.Student{}, err
	}

	return allocengine.Student{
		ID:               resp.ID,
		Home:             allocengine.Location{Lat: resp.Home.Lat, Lng: resp.Home.Lng},
		Zone:             allocengine.Zone(resp.Zone),
		GenderPreference: resp.GenderPreference,
	}, nil
}
