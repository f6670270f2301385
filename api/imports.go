/*
Copyright 2025 Centavo Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/centavohq/centavo"
	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

// QueueImportRun accepts a multipart CSV upload, validates its header set and
// queues the run. Schema failures come back immediately with the missing
// column list; nothing is persisted for a rejected file.
func (a Api) QueueImportRun(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	run, err := a.centavo.QueueImport(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		var schemaErr centavo.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           schemaErr.Error(),
				"missing_columns": schemaErr.MissingColumns,
			})
			return
		}
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, run)
}

func (a Api) GetImportRun(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /import-runs/:id"})
		return
	}

	run, err := a.centavo.GetImportRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetImportRunRows returns the per-row outcomes of a completed run. Before the
// run completes there is no summary yet, so the row list is empty.
func (a Api) GetImportRunRows(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /import-runs/:id/rows"})
		return
	}

	run, err := a.centavo.GetImportRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	rows := []model.RowResult{}
	if run.Summary != nil {
		rows = run.Summary.Rows
	}

	c.JSON(http.StatusOK, gin.H{"import_id": run.ImportID, "status": run.Status, "rows": rows})
}

func (a Api) GetImportRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	runs, err := a.centavo.GetImportRuns(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}

// RecoverImportRuns sweeps for runs stuck in a non-terminal status and marks
// the orphaned ones failed. Threshold is passed in minutes; the service
// enforces a floor so an in-flight run is never swept.
func (a Api) RecoverImportRuns(c *gin.Context) {
	thresholdMinutes, err := strconv.Atoi(c.DefaultQuery("threshold_minutes", "60"))
	if err != nil || thresholdMinutes <= 0 {
		thresholdMinutes = 60
	}

	recovered, err := a.centavo.RecoverStuckImportRuns(c.Request.Context(), time.Duration(thresholdMinutes)*time.Minute)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recovered": recovered})
}

// ImportClients bulk-loads the client table synchronously and returns the
// per-row outcome. Client files are small enough to not need the queue.
func (a Api) ImportClients(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	summary, err := a.centavo.ImportClients(c.Request.Context(), file)
	if err != nil {
		var schemaErr centavo.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           schemaErr.Error(),
				"missing_columns": schemaErr.MissingColumns,
			})
			return
		}
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
