package convert

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// Wire types for the service's job API. A job chains three tasks: an
// import/upload stage receiving the source document, a convert stage, and an
// export/url stage exposing the result for download.

type jobRequest struct {
	Tasks map[string]taskSpec `json:"tasks"`
}

type taskSpec struct {
	Operation    string `json:"operation"`
	Input        string `json:"input,omitempty"`
	InputFormat  string `json:"input_format,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

type jobResponse struct {
	Data jobData `json:"data"`
}

type jobData struct {
	ID     string     `json:"id"`
	Status string     `json:"status"`
	Tasks  []taskData `json:"tasks"`
}

type taskResponse struct {
	Data taskData `json:"data"`
}

type taskData struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Operation string      `json:"operation"`
	Status    string      `json:"status"`
	Result    *taskResult `json:"result,omitempty"`
}

type taskResult struct {
	Form  *uploadForm  `json:"form,omitempty"`
	Files []resultFile `json:"files,omitempty"`
}

type uploadForm struct {
	URL        string            `json:"url"`
	Parameters map[string]string `json:"parameters"`
}

type resultFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

const (
	importTaskName  = "import-report"
	convertTaskName = "convert-report"
	exportTaskName  = "export-report"
)

// Convert submits the rendered document to the conversion service and
// returns the resulting PDF bytes. The protocol is strictly sequential:
// create job, poll import readiness, upload, poll completion, fetch export,
// download. Any failure at any stage returns *UnavailableError; there are no
// retries, because the caller's fallback (serving the DOCX unchanged) is
// always available and strictly better than hanging the request.
func (c *Client) Convert(ctx context.Context, document []byte, filename string) ([]byte, error) {
	if !c.Enabled() {
		return nil, &UnavailableError{Stage: "config", Message: "no conversion credential configured"}
	}

	job, err := c.createJob(ctx)
	if err != nil {
		return nil, &UnavailableError{Stage: "create", Message: "failed to create conversion job", Cause: err}
	}
	c.logger.Debug("conversion job created", zap.String("job_id", job.ID))

	form, err := c.awaitUploadForm(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := c.upload(ctx, form, document, filename); err != nil {
		return nil, &UnavailableError{Stage: "upload", Message: "failed to upload document", Cause: err}
	}

	exportTask, err := c.awaitCompletion(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	fileURL, err := c.exportFileURL(ctx, exportTask.ID)
	if err != nil {
		return nil, &UnavailableError{Stage: "export", Message: "failed to fetch export descriptor", Cause: err}
	}

	pdf, err := c.download(ctx, fileURL)
	if err != nil {
		return nil, &UnavailableError{Stage: "download", Message: "failed to download converted file", Cause: err}
	}

	c.logger.Debug("conversion finished",
		zap.String("job_id", job.ID),
		zap.Int("pdf_bytes", len(pdf)))
	return pdf, nil
}

// createJob registers the three-stage job description with the service.
func (c *Client) createJob(ctx context.Context) (*jobData, error) {
	req := jobRequest{Tasks: map[string]taskSpec{
		importTaskName: {Operation: "import/upload"},
		convertTaskName: {
			Operation:    "convert",
			Input:        importTaskName,
			InputFormat:  "docx",
			OutputFormat: "pdf",
		},
		exportTaskName: {Operation: "export/url", Input: convertTaskName},
	}}

	var resp jobResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/jobs", req, apiTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// awaitUploadForm polls the import task until the service is ready to
// receive the upload, bounded to importPollAttempts.
func (c *Client) awaitUploadForm(ctx context.Context, job *jobData) (*uploadForm, error) {
	importTask := findTask(job.Tasks, importTaskName)
	if importTask == nil {
		return nil, &UnavailableError{Stage: "import", Message: "job has no import task"}
	}

	state := StateCreated
	for attempt := 0; attempt < importPollAttempts; attempt++ {
		var resp taskResponse
		if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/tasks/"+importTask.ID, nil, apiTimeout, &resp); err != nil {
			return nil, &UnavailableError{Stage: "import", Message: "failed to poll import task", Cause: err}
		}

		state = Advance(state, resp.Data.Status)
		if state == StateErrored {
			return nil, &UnavailableError{Stage: "import", Message: "import task reported an error"}
		}
		if state == StateImportWaiting && resp.Data.Result != nil && resp.Data.Result.Form != nil {
			return resp.Data.Result.Form, nil
		}

		if err := sleep(ctx, c.importPollInterval); err != nil {
			return nil, &UnavailableError{Stage: "import", Message: "cancelled while waiting for upload form", Cause: err}
		}
	}
	return nil, &UnavailableError{Stage: "import", Message: "upload form not ready within polling bound"}
}

// upload posts the document to the form target with the required multipart
// fields, bounded by the upload timeout.
func (c *Client) upload(ctx context.Context, form *uploadForm, document []byte, filename string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range form.Parameters {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(document); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, form.URL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UnavailableError{Stage: "upload", Message: "upload rejected with HTTP status " + resp.Status}
	}
	return nil
}

// awaitCompletion polls overall job status until finished, bounded to
// jobPollAttempts. An "error" status at any point fails immediately.
func (c *Client) awaitCompletion(ctx context.Context, jobID string) (*taskData, error) {
	state := StateUploading
	for attempt := 0; attempt < jobPollAttempts; attempt++ {
		var resp jobResponse
		if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID, nil, apiTimeout, &resp); err != nil {
			return nil, &UnavailableError{Stage: "convert", Message: "failed to poll job status", Cause: err}
		}

		state = Advance(state, resp.Data.Status)
		switch state {
		case StateErrored:
			return nil, &UnavailableError{Stage: "convert", Message: "conversion job reported an error"}
		case StateFinished:
			exportTask := findTask(resp.Data.Tasks, exportTaskName)
			if exportTask == nil {
				return nil, &UnavailableError{Stage: "convert", Message: "finished job has no export task"}
			}
			return exportTask, nil
		}

		if err := sleep(ctx, c.jobPollInterval); err != nil {
			return nil, &UnavailableError{Stage: "convert", Message: "cancelled while waiting for conversion", Cause: err}
		}
	}
	return nil, &UnavailableError{Stage: "convert", Message: "conversion did not finish within polling bound"}
}

// exportFileURL fetches the finished export task and returns its first
// file's download URL.
func (c *Client) exportFileURL(ctx context.Context, exportTaskID string) (string, error) {
	var resp taskResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/tasks/"+exportTaskID, nil, apiTimeout, &resp); err != nil {
		return "", err
	}
	if resp.Data.Result == nil || len(resp.Data.Result.Files) == 0 {
		return "", &UnavailableError{Stage: "export", Message: "export task has no files"}
	}
	return resp.Data.Result.Files[0].URL, nil
}

// download fetches the converted binary, bounded by the download timeout.
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{Stage: "download", Message: "download rejected with HTTP status " + resp.Status}
	}
	return io.ReadAll(resp.Body)
}

func findTask(tasks []taskData, name string) *taskData {
	for i := range tasks {
		if tasks[i].Name == name {
			return &tasks[i]
		}
	}
	return nil
}
