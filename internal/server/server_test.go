// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerview/internal/app"
	"powerview/internal/insights"
	"powerview/internal/powertop"
	"powerview/internal/report"
	"powerview/internal/table"
)

const (
	fixtureCSV  = "../powertop/testdata/powertop.csv"
	fixtureHTML = "../powertop/testdata/powertop.html"
)

func newTestServer() *Server {
	tables := append([]table.TableDefinition{app.TableDefinitions[app.BriefTableName]}, report.Tables(insights.DefaultRules())...)
	return New(tables, NewMetrics())
}

// multipartUpload builds a request uploading the file at path in the file field
func multipartUpload(t *testing.T, target string, path string) *http.Request {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(uploadField, path[strings.LastIndex(path, "/")+1:])
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	request := httptest.NewRequest(http.MethodPost, target, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

func serve(s *Server, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	recorder := serve(newTestServer(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestParseMultipart(t *testing.T) {
	tests := []struct {
		path string
	}{
		{path: fixtureCSV},
		{path: fixtureHTML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			recorder := serve(newTestServer(), multipartUpload(t, "/api/parse", tt.path))

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			var parsed powertop.Report
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&parsed))
			assert.Equal(t, 9.3, parsed.Summary.CPUUsage)
			assert.Equal(t, 771.9, parsed.Summary.Wakeups)
			assert.Len(t, parsed.Processes, 3)
			assert.Equal(t, "Ubuntu 23.10", parsed.SystemInfo.OS)
		})
	}
}

func TestParseRawBody(t *testing.T) {
	content, err := os.ReadFile(fixtureCSV)
	require.NoError(t, err)

	tests := []struct {
		name    string
		target  string
		wantCPU float64
	}{
		{name: "csv hint", target: "/api/parse?format=csv", wantCPU: 9.3},
		// without a hint or file name the body is parsed as HTML
		{name: "no hint", target: "/api/parse", wantCPU: 0},
		{name: "auto", target: "/api/parse?format=auto", wantCPU: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(newTestServer(), httptest.NewRequest(http.MethodPost, tt.target, bytes.NewReader(content)))

			require.Equal(t, http.StatusOK, recorder.Code)
			var parsed powertop.Report
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&parsed))
			assert.Equal(t, tt.wantCPU, parsed.Summary.CPUUsage)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name: "unreadable body",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/parse?format=csv", iotest.ErrReader(errors.New("connection reset")))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "failed to parse PowerTOP CSV file, please ensure it's a valid export",
		},
		{
			name: "bad type",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/parse?format=pdf", strings.NewReader("x"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "type options are: auto, csv, html",
		},
		{
			name: "missing file field",
			request: func(t *testing.T) *http.Request {
				var body bytes.Buffer
				writer := multipart.NewWriter(&body)
				require.NoError(t, writer.WriteField("name", "value"))
				require.NoError(t, writer.Close())
				request := httptest.NewRequest(http.MethodPost, "/api/parse", &body)
				request.Header.Set("Content-Type", writer.FormDataContentType())
				return request
			},
			wantStatus: http.StatusBadRequest,
			wantError:  `missing "file" file field`,
		},
		{
			name: "too large",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader(make([]byte, MaxUploadSize+1)))
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantError:  "upload exceeds 33554432 bytes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(newTestServer(), tt.request(t))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantError, decodeError(t, recorder))
		})
	}
}

func TestParseMethodNotAllowed(t *testing.T) {
	recorder := serve(newTestServer(), httptest.NewRequest(http.MethodGet, "/api/parse", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestReport(t *testing.T) {
	tests := []struct {
		format       string
		wantContains string
	}{
		{format: report.FormatHtml, wantContains: "<h1>PowerView</h1>"},
		{format: report.FormatTxt, wantContains: "Top Power Consumers"},
		{format: report.FormatJson, wantContains: `"Device Power Report"`},
		{format: report.FormatXlsx, wantContains: "PK"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			recorder := serve(newTestServer(), multipartUpload(t, "/api/report?format="+tt.format, fixtureCSV))

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, report.ContentTypes[tt.format], recorder.Header().Get("Content-Type"))
			assert.Contains(t, recorder.Body.String(), tt.wantContains)
		})
	}
}

func TestReportDefaultsToHTML(t *testing.T) {
	content, err := os.ReadFile(fixtureHTML)
	require.NoError(t, err)

	recorder := serve(newTestServer(), httptest.NewRequest(http.MethodPost, "/api/report", bytes.NewReader(content)))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, report.ContentTypes[report.FormatHtml], recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Body.String(), "powertop")
	assert.Contains(t, recorder.Body.String(), "gnome-shell")
}

func TestReportXlsxAttachment(t *testing.T) {
	recorder := serve(newTestServer(), multipartUpload(t, "/api/report?format=xlsx", fixtureCSV))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "attachment; filename=powertop.xlsx", recorder.Header().Get("Content-Disposition"))
}

func TestReportBadFormat(t *testing.T) {
	recorder := serve(newTestServer(), multipartUpload(t, "/api/report?format=pdf", fixtureCSV))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "format options are: html, xlsx, json, txt", decodeError(t, recorder))
}

func TestMetrics(t *testing.T) {
	s := newTestServer()
	require.Equal(t, http.StatusOK, serve(s, multipartUpload(t, "/api/parse", fixtureCSV)).Code)
	require.Equal(t, http.StatusOK, serve(s, multipartUpload(t, "/api/parse", fixtureCSV)).Code)
	badRequest := httptest.NewRequest(http.MethodPost, "/api/parse", iotest.ErrReader(errors.New("reset")))
	require.Equal(t, http.StatusUnprocessableEntity, serve(s, badRequest).Code)

	recorder := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `powerview_parse_total{format="csv",result="ok"} 2`)
	assert.Contains(t, text, `powerview_parse_total{format="html",result="error"} 1`)
	assert.Contains(t, text, "powerview_parse_duration_seconds_count 3")
	assert.Contains(t, text, "powerview_last_cpu_usage_percent 9.3")
	assert.Contains(t, text, "powerview_last_wakeups_per_second 771.9")
	assert.Contains(t, text, "go_goroutines")
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		inputType string
		fileName  string
		want      powertop.Format
		wantErr   bool
	}{
		{inputType: "", fileName: "a.csv", want: powertop.FormatCSV},
		{inputType: "", fileName: "a.html", want: powertop.FormatHTML},
		{inputType: "", fileName: "", want: powertop.FormatHTML},
		{inputType: "auto", fileName: "A.CSV", want: powertop.FormatCSV},
		{inputType: "csv", fileName: "a.html", want: powertop.FormatCSV},
		{inputType: "html", fileName: "a.csv", want: powertop.FormatHTML},
		{inputType: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.inputType+"/"+tt.fileName, func(t *testing.T) {
			got, err := inputFormat(tt.inputType, tt.fileName)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
