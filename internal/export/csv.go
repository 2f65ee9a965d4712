package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cartlab/internal/model"
)

// RecordHeader is the fixed column set of the accepted-trials CSV. String
// fields are double-quoted; numbers and booleans pass through verbatim.
var RecordHeader = []string{
	"id", "recorded_at", "scenario", "preset", "hanging_mass_kg",
	"force_mean_n", "acceleration_mps2",
	"force_win_start_s", "force_win_end_s",
	"vel_win_start_s", "vel_win_end_s",
	"noise", "seed",
}

// WriteRecordsCSV writes the accepted trial records.
func WriteRecordsCSV(w io.Writer, records []model.TrialRecord) error {
	if _, err := fmt.Fprintln(w, strings.Join(RecordHeader, ",")); err != nil {
		return err
	}
	for _, rec := range records {
		fw := rec.ForceWindow.Normalized()
		vw := rec.VelocityWindow.Normalized()
		fields := []string{
			strconv.FormatInt(rec.ID, 10),
			quote(rec.RecordedAt.Format(time.RFC3339)),
			quote(rec.Scenario),
			quote(rec.Preset),
			number(rec.HangingMassKg),
			number(rec.ForceMeanN),
			number(rec.AccelerationMps2),
			number(fw.StartS),
			number(fw.EndS),
			number(vw.StartS),
			number(vw.EndS),
			strconv.FormatBool(rec.Noise),
			strconv.FormatUint(uint64(rec.Seed), 10),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// WriteSeriesCSV writes the raw sample series of one trial.
func WriteSeriesCSV(w io.Writer, signals model.TrialSignals) error {
	if _, err := fmt.Fprintln(w, "time_s,force_n,velocity_mps"); err != nil {
		return err
	}
	for i, t := range signals.TimesS {
		line := number(t) + "," + number(signals.ForceN[i]) + "," + number(signals.VelocityMps[i])
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
