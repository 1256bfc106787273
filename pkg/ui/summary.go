package ui

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/workbench/pkg/journal"
	"github.com/arthur-debert/workbench/pkg/orchestrator"
	"github.com/arthur-debert/workbench/pkg/provision"
	"github.com/pterm/pterm"
)

// RenderSummary renders one row per user of report
func RenderSummary(report *orchestrator.Report, f Format) (string, error) {
	if len(report.Users) == 0 {
		return paint(MutedStyle, "No users processed.", f) + "\n", nil
	}

	data := pterm.TableData{{"User", "Status", "Failed packages", "Fetched", "Skipped", "Error"}}
	for _, u := range report.Users {
		failed := "-"
		if !u.FailedPackages.Empty() {
			failed = strings.Join(u.FailedPackages.Packages(), ", ")
		}
		errText := "-"
		if u.Error != "" {
			errText = fmt.Sprintf("%s: %s", u.FailedPhase, u.ErrorCode)
		}
		data = append(data, []string{
			u.User,
			paint(StatusStyle(u.Status), string(u.Status), f),
			failed,
			fmt.Sprint(u.Targets.Count(provision.OutcomeFetched)),
			fmt.Sprint(u.Targets.Count(provision.OutcomeSkipped)),
			errText,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}

	title := paint(TitleStyle, "Summary ("+report.Plan+")", f)
	return title + "\n" + table + "\n", nil
}

// RenderFailures lists the failed stage of every failed package
func RenderFailures(report *orchestrator.Report, f Format) string {
	var b strings.Builder
	for _, u := range report.Users {
		for _, e := range u.FailedPackages {
			fmt.Fprintf(&b, "%s %s\n", paint(WarningStyle, u.User+":", f), e.Error())
		}
		if u.Error != "" {
			fmt.Fprintf(&b, "%s %s\n", paint(ErrorStyle, u.User+":", f), u.Error)
		}
	}
	return b.String()
}

// RenderHistory renders journal events, newest first
func RenderHistory(events []journal.Event, f Format) (string, error) {
	if len(events) == 0 {
		return paint(MutedStyle, "No journal entries.", f) + "\n", nil
	}

	data := pterm.TableData{{"Time", "Run", "User", "Kind", "Name", "Result", "Stage"}}
	for _, ev := range events {
		result := paint(SuccessStyle, ev.Outcome, f)
		if !ev.OK {
			result = paint(ErrorStyle, ev.Outcome, f)
		}
		stage := ev.Stage
		if stage == "" {
			stage = "-"
		}
		data = append(data, []string{
			ev.Time.Local().Format("2006-01-02 15:04:05"),
			ev.RunID,
			ev.User,
			string(ev.Kind),
			ev.Name,
			result,
			stage,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
