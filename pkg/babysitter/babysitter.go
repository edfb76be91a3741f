/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package babysitter keeps an eye on running jobs. All state lives in
// Postgres and more than one falconerid replica is normally running, so
// every fix found by a sweep is re-checked under a row lock before it is
// applied. Losing a race only costs a log line.
package babysitter

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

// Babysitter periodically sweeps for work nobody else will do: jobs whose
// Kubernetes workload vanished, datums whose worker pod died, and failed
// datums that still have attempts left.
type Babysitter struct {
	dbClient  dbclient.Interface
	k8sClient kubernetes.Interface
	// How often to sweep
	interval time.Duration
	// How old a running job must be before a missing workload errors it
	vanishedAfter time.Duration
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

// New creates a new Babysitter instance.
func New(ctx context.Context, dbClient dbclient.Interface, k8sClient kubernetes.Interface) *Babysitter {
	interval := time.Duration(config.GetBabysitterIntervalSecond()) * time.Second
	vanishedAfter := time.Duration(config.GetBabysitterVanishedSecond()) * time.Second

	if interval <= 0 {
		interval = 2 * time.Minute
	}
	if vanishedAfter <= 0 {
		vanishedAfter = 15 * time.Minute
	}

	babysitterCtx, cancel := context.WithCancel(ctx)
	return &Babysitter{
		dbClient:      dbClient,
		k8sClient:     k8sClient,
		interval:      interval,
		vanishedAfter: vanishedAfter,
		ctx:           babysitterCtx,
		cancelFunc:    cancel,
	}
}

// Start runs the sweep loop until Stop is called. Panics are not recovered;
// a panicking babysitter takes the whole process down so Kubernetes makes
// noise and restarts falconerid instead of letting the sweeps silently stop.
func (b *Babysitter) Start() {
	if b.dbClient == nil {
		klog.Warning("Babysitter cannot start: database client is nil.")
		return
	}
	if b.k8sClient == nil {
		klog.Warning("Babysitter cannot start: kubernetes client is nil.")
		return
	}

	klog.Infof("Babysitter started with interval: %v, vanished cutoff: %v", b.interval, b.vanishedAfter)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			klog.Info("Babysitter stopped.")
			return
		case <-ticker.C:
			// Always retry errors on the next tick. If Postgres is still
			// starting up, or someone restarted it, we eventually recover.
			if err := b.checkRunningJobs(); err != nil {
				klog.ErrorS(err, "error checking running jobs (will retry later)")
			}
		}
	}
}

// Stop gracefully stops the sweep loop.
func (b *Babysitter) Stop() {
	b.cancelFunc()
}

// checkRunningJobs performs a single sweep.
func (b *Babysitter) checkRunningJobs() error {
	if err := b.checkForFinishedAndVanishedJobs(); err != nil {
		return err
	}
	if err := b.checkForZombieDatums(); err != nil {
		return err
	}
	// Datums the zombie check just marked as error may be picked right back
	// up here when they have attempts left.
	return b.checkForRerunableDatums()
}

// checkForFinishedAndVanishedJobs catches jobs which should already have
// been marked as finished, and jobs whose Kubernetes workload is gone. A
// workload vanishes when it outlives ttlSecondsAfterFinished or when someone
// deletes it by hand.
func (b *Babysitter) checkForFinishedAndVanishedJobs() error {
	jobs, err := b.dbClient.SelectRunningJobs(b.ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	jobNames, err := b.k8sClient.ListJobNames(b.ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-b.vanishedAfter)
	for _, candidate := range jobs {
		// A worker's final datum update may have raced our listing, so
		// derive the status fresh before judging the job.
		job, err := b.dbClient.UpdateJobStatusIfDone(b.ctx, candidate.Id)
		if err != nil {
			return err
		}
		if job.Status != dbclient.StatusRunning {
			continue
		}
		// Young jobs get a grace period; their workload may not have been
		// created yet when we listed.
		if job.CreatedAt.Before(cutoff) && !jobNames.Has(job.JobName) {
			klog.Warningf("job %s is running but has no corresponding Kubernetes job, setting status to 'error'", job.JobName)
			if _, err := b.dbClient.MarkJobAsError(b.ctx, job.Id); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkForZombieDatums catches datums which claim to be running in a pod
// that no longer exists.
func (b *Babysitter) checkForZombieDatums() error {
	candidates, err := b.dbClient.SelectZombieDatumCandidates(b.ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	podNames, err := b.k8sClient.ListRunningPodNames(b.ctx)
	if err != nil {
		return err
	}

	for _, datum := range candidates {
		if datum.PodName != nil && podNames.Has(*datum.PodName) {
			continue
		}
		changed, err := b.dbClient.MarkDatumAsErrorIfRunning(b.ctx, datum.Id,
			"(did not capture output)",
			"worker pod disappeared while working on datum",
			"(no backtrace available)")
		if err != nil {
			return err
		}
		if changed {
			klog.Warningf("found zombie datum %s, which was supposed to be running on pod %s",
				datum.Id, podNameForLog(datum.PodName))
		} else {
			klog.Warningf("someone beat us to zombie datum %s", datum.Id)
		}
		// If that was the job's last unfinished datum, finish the job.
		if _, err := b.dbClient.UpdateJobStatusIfDone(b.ctx, datum.JobId); err != nil {
			return err
		}
	}
	return nil
}

// checkForRerunableDatums puts failed datums which still have attempts left
// back in the ready queue. Output files from the failed attempt are removed
// along the way so the next attempt can upload them again.
func (b *Babysitter) checkForRerunableDatums() error {
	datums, err := b.dbClient.SelectRerunableDatums(b.ctx)
	if err != nil {
		return err
	}
	for _, datum := range datums {
		changed, err := b.dbClient.RescheduleDatumIfRerunable(b.ctx, datum.Id)
		if err != nil {
			return err
		}
		if changed {
			klog.Warningf("rescheduling errored datum %s (previously on try %d/%d)",
				datum.Id, datum.AttemptedRunCount, datum.MaximumAllowedRunCount)
		} else {
			klog.Warningf("someone beat us to rerunable datum %s", datum.Id)
		}
	}
	return nil
}

// podNameForLog renders a nullable pod name. Reservation always records a
// pod name, but the column allows NULL.
func podNameForLog(podName *string) string {
	if podName == nil {
		return "(unknown pod)"
	}
	return *podName
}
