package services

import (
	"context"
	"drone-route-service/internal/platform/metrics"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// Time allowed for the best-effort landing after an aborted mission.
	emergencyLandTimeout = 10 * time.Second
	// Pause before re-sending after a transport failure.
	transportRetryDelay = 100 * time.Millisecond
)

type MissionOptions struct {
	// MissionPad is the pad id used to re-align after every forward leg,
	// e.g. "m-2". Empty disables re-alignment.
	MissionPad string
}

type MissionReport struct {
	Sent         int
	Retries      int
	Realignments int
}

// FlyMission connects to the vehicle, takes off, flies every command in order
// and lands.
//
// Each refused mission command is re-sent until the vehicle acknowledges it,
// with no backoff and no attempt limit. A command whose reply never arrives is
// not re-sent, since the vehicle may already be executing it; the mission is
// aborted instead. Take-off, landing and re-alignment commands are sent once.
// If the mission stops after connecting a landing is still attempted.
func FlyMission(
	ctx context.Context,
	driver ports.VehicleDriver,
	commands []string,
	opts MissionOptions,
) (report MissionReport, err error) {
	defer obs.Time(ctx, "mission.Fly")(&err)

	if err := driver.Connect(ctx); err != nil {
		return report, fmt.Errorf("fly mission: connect: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		landCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emergencyLandTimeout)
		defer cancel()
		if lerr := sendOnce(landCtx, driver, "land"); lerr != nil {
			obs.Logger(ctx).WithError(lerr).Error("emergency landing failed")
		}
	}()

	if err := sendOnce(ctx, driver, "takeoff"); err != nil {
		return report, fmt.Errorf("fly mission: takeoff: %w", err)
	}

	for i, c := range commands {
		retries, err := sendUntilAck(ctx, driver, c)
		report.Sent++
		report.Retries += retries
		if err != nil {
			return report, fmt.Errorf("fly mission: command #%d %q: %w", i+1, c, err)
		}

		if opts.MissionPad != "" && strings.HasPrefix(c, "forward") {
			realign(ctx, driver, opts.MissionPad)
			report.Realignments++
		}
	}

	if err := sendOnce(ctx, driver, "land"); err != nil {
		obs.Logger(ctx).WithError(err).Error("landing command failed")
	}

	return report, nil
}

// sendUntilAck re-sends command until it is acknowledged. It gives up when
// ctx is done, when the reply times out or when the driver is not connected.
// It returns the number of re-sends.
func sendUntilAck(ctx context.Context, driver ports.VehicleDriver, command string) (int, error) {
	warn := rate.Sometimes{First: 1, Interval: time.Second}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		ok, err := driver.Send(ctx, command)
		switch {
		case errors.Is(err, ports.ErrAckTimeout), errors.Is(err, ports.ErrNotConnected):
			metrics.VehicleCommands.WithLabelValues("error").Inc()
			return attempt, err
		case err != nil:
			metrics.VehicleCommands.WithLabelValues("error").Inc()
			warn.Do(func() {
				obs.Logger(ctx).WithFields(log.Fields{"command": command, "attempt": attempt + 1}).
					WithError(err).Warn("command send failed")
			})
			if err := pause(ctx, transportRetryDelay); err != nil {
				return attempt, err
			}
		case ok:
			metrics.VehicleCommands.WithLabelValues("ack").Inc()
			obs.Logger(ctx).WithField("command", command).Info("command accepted")
			return attempt, nil
		default:
			metrics.VehicleCommands.WithLabelValues("nack").Inc()
			obs.Logger(ctx).WithFields(log.Fields{"command": command, "attempt": attempt + 1}).Warn("command refused")
		}
	}
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// sendOnce sends command a single time; a refusal is logged, not retried.
func sendOnce(ctx context.Context, driver ports.VehicleDriver, command string) error {
	ok, err := driver.Send(ctx, command)
	if err != nil {
		metrics.VehicleCommands.WithLabelValues("error").Inc()
		return err
	}
	if !ok {
		metrics.VehicleCommands.WithLabelValues("nack").Inc()
		obs.Logger(ctx).WithField("command", command).Warn("command refused")
		return nil
	}
	metrics.VehicleCommands.WithLabelValues("ack").Inc()
	return nil
}

// realign hovers over the mission pad to correct drift accumulated on a leg.
func realign(ctx context.Context, driver ports.VehicleDriver, pad string) {
	for _, c := range []string{"mon", "go 0 0 100 20 " + pad, "moff"} {
		if err := sendOnce(ctx, driver, c); err != nil {
			obs.Logger(ctx).WithField("command", c).WithError(err).Warn("re-alignment command failed")
		}
	}
}
