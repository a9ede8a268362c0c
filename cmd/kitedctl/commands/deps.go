// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"time"

	"github.com/automa-saga/logx"

	"github.com/kiteco/kited-manager/internal/config"
	"github.com/kiteco/kited-manager/internal/doctor"
	"github.com/kiteco/kited-manager/internal/download"
	"github.com/kiteco/kited-manager/internal/host"
	"github.com/kiteco/kited-manager/internal/kite"
)

// newKiteManager wires a lifecycle manager from the loaded configuration.
func newKiteManager(ctx context.Context) kite.Manager {
	cfg := config.Get()

	downloader := download.NewDownloader(
		download.WithTimeout(time.Duration(cfg.Download.TimeoutMinutes)*time.Minute),
		download.WithLogger(logx.As()),
	)

	mgr, err := kite.NewManager(
		kite.WithLogger(logx.As()),
		kite.WithDownloader(downloader),
		kite.WithVerifyBudget(cfg.Verify.Attempts, time.Duration(cfg.Verify.BackoffMillis)*time.Millisecond),
	)
	if err != nil {
		doctor.CheckErr(ctx, err)
	}

	return mgr
}

func newHostChecker() *host.Checker {
	return host.NewChecker(host.WithLogger(logx.As()))
}
