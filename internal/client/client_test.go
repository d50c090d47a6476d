package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_List_SendsFilters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/attendance", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]attendance.AttendanceResponse{
			{ID: "1", EmployeeName: "Jane Doe", EmployeeID: "E100", Date: "2024-03-05", Status: attendance.StatusPresent},
		})
	}))
	defer server.Close()

	c := New(server.URL+"/", time.Second)
	records, err := c.List(context.Background(), attendance.AttendanceFilter{Query: "jane doe", Date: "2024-03-05"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Doe", records[0].EmployeeName)
	assert.Equal(t, "date=2024-03-05&q=jane+doe", gotQuery)
}

func TestClient_List_OmitsEmptyFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		fmt.Fprint(w, "null")
	}))
	defer server.Close()

	records, err := New(server.URL, time.Second).List(context.Background(), attendance.AttendanceFilter{})

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req attendance.CreateAttendanceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane Doe", req.EmployeeName)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(attendance.AttendanceResponse{
			ID: "abc", EmployeeName: req.EmployeeName, EmployeeID: req.EmployeeID, Date: req.Date, Status: req.Status,
		})
	}))
	defer server.Close()

	created, err := New(server.URL, time.Second).Create(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeName: "Jane Doe", EmployeeID: "E100", Date: "2024-03-05", Status: attendance.StatusPresent,
	})

	require.NoError(t, err)
	assert.Equal(t, "abc", created.ID)
}

func TestClient_Create_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":"employeeID: employeeID is required","code":"VALIDATION_ERROR"}`)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).Create(context.Background(), attendance.CreateAttendanceRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	msg, ok := RemoteMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "employeeID: employeeID is required", msg)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	err := New(server.URL, time.Second).Delete(context.Background(), "abc")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	_, ok := RemoteMessage(err)
	assert.False(t, ok)
}

func TestClient_Delete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL, time.Second).Delete(context.Background(), "a/b")

	require.NoError(t, err)
	assert.Equal(t, "/api/attendance/a%2Fb", gotPath)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url, time.Second).List(context.Background(), attendance.AttendanceFilter{})

	require.Error(t, err)
	_, ok := RemoteMessage(err)
	assert.False(t, ok)
	assert.False(t, errors.As(err, new(*APIError)))
}

func TestClient_Watch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/attendance/stream", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
		fmt.Fprint(w, ": keepalive comment\n\n")
		fmt.Fprint(w, "event: attendance:added\ndata: {\"id\":\"1\"}\n\n")
	}))
	defer server.Close()

	var events []StreamEvent
	err := New(server.URL, time.Second).Watch(context.Background(), func(ev StreamEvent) {
		events = append(events, ev)
	})

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "connected", events[0].Name)
	assert.Equal(t, "attendance:added", events[1].Name)
	assert.Equal(t, `{"id":"1"}`, events[1].Data)
}
