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

package centavo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/centavohq/centavo/config"
	"github.com/centavohq/centavo/internal/notification"
	"github.com/centavohq/centavo/model"
)

// ImportRunRecoveryProcessor periodically scans for runs that never reached a
// terminal status. The CSV payload only lives inside the queued task, so a run
// whose task is gone cannot be replayed; it is marked failed so the operator
// can re-upload the file.
type ImportRunRecoveryProcessor struct {
	service        *Centavo
	pollInterval   time.Duration
	stuckThreshold time.Duration
	stopCh         chan struct{}
	wg             sync.WaitGroup
	running        bool
	mu             sync.Mutex
}

func NewImportRunRecoveryProcessor(service *Centavo) *ImportRunRecoveryProcessor {
	return &ImportRunRecoveryProcessor{
		service:        service,
		pollInterval:   30 * time.Second,
		stuckThreshold: 1 * time.Hour,
		stopCh:         make(chan struct{}),
	}
}

func (p *ImportRunRecoveryProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()

	logrus.Info("Import run recovery processor started")
}

func (p *ImportRunRecoveryProcessor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
	logrus.Info("Import run recovery processor stopped")
}

func (p *ImportRunRecoveryProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ImportRunRecoveryProcessor) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Import run recovery processor context cancelled")
			return
		case <-p.stopCh:
			logrus.Info("Import run recovery processor stop signal received")
			return
		case <-ticker.C:
			p.recoverWithThreshold(ctx, p.stuckThreshold)
		}
	}
}

// RecoverStuckImportRuns triggers an immediate sweep using the provided
// threshold. Exposed for the manual trigger API endpoint.
func (s *Centavo) RecoverStuckImportRuns(ctx context.Context, threshold time.Duration) (int, error) {
	if threshold < 2*time.Minute {
		threshold = 2 * time.Minute
	}

	processor := NewImportRunRecoveryProcessor(s)
	return processor.recoverWithThreshold(ctx, threshold), nil
}

func (p *ImportRunRecoveryProcessor) recoverWithThreshold(ctx context.Context, threshold time.Duration) int {
	stuckRuns, err := p.service.datasource.GetStuckImportRuns(ctx, time.Now().Add(-threshold))
	if err != nil {
		logrus.Errorf("failed to get stuck import runs: %v", err)
		return 0
	}

	if len(stuckRuns) == 0 {
		return 0
	}

	logrus.Infof("Inspecting %d stuck import runs (threshold=%v)", len(stuckRuns), threshold)

	recovered := 0
	for _, run := range stuckRuns {
		if err := p.processStuckRun(ctx, run); err != nil {
			logrus.Errorf("failed to process stuck import run %s: %v", run.ImportID, err)
			continue
		}
		recovered++
	}
	return recovered
}

func (p *ImportRunRecoveryProcessor) processStuckRun(ctx context.Context, run *model.ImportRun) error {
	if p.taskStillOwnedByQueue(run.ImportID) {
		logrus.Infof("Import run %s still owned by the queue, leaving it alone", run.ImportID)
		return nil
	}

	if err := p.service.datasource.CompleteImportRun(ctx, run.ImportID, StatusFailed, &model.ImportSummary{}); err != nil {
		return err
	}

	notification.NotifyError(fmt.Errorf("import run %s (%s) was orphaned and marked failed; re-upload the file to retry", run.ImportID, run.FileName))
	logrus.Warnf("Marked orphaned import run %s failed", run.ImportID)
	return nil
}

// taskStillOwnedByQueue reports whether the run's task is still known to
// asynq in a state that will eventually execute. Task IDs equal import IDs,
// so the inspector can look the task up directly.
func (p *ImportRunRecoveryProcessor) taskStillOwnedByQueue(importID string) bool {
	if p.service.queue == nil || p.service.queue.Inspector == nil {
		return false
	}

	cfg, err := config.Fetch()
	if err != nil {
		return false
	}

	info, err := p.service.queue.Inspector.GetTaskInfo(cfg.Queue.ImportQueue, importID)
	if err != nil {
		return false
	}

	switch info.State {
	case asynq.TaskStateActive, asynq.TaskStatePending, asynq.TaskStateScheduled, asynq.TaskStateRetry:
		return true
	default:
		return false
	}
}
