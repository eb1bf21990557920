package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/circadia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
	"github.com/felixgeelhaar/circadia/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/circadia/pkg/config"
	"github.com/felixgeelhaar/circadia/pkg/observability"
)

// requestFile is the JSON input format of `circadia generate`.
type requestFile struct {
	UserID      string         `json:"user_id"`
	TargetDate  string         `json:"target_date"`
	Tasks       []taskInput    `json:"tasks"`
	FixedEvents []eventInput   `json:"fixed_events"`
	Preferences map[string]any `json:"preferences"`
	Profile     profileInput   `json:"profile"`
}

type taskInput struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DurationMinutes int      `json:"duration_minutes"`
	Priority        string   `json:"priority"`
	EnergyLevel     string   `json:"energy_level"`
	Deadline        string   `json:"deadline,omitempty"`
	EarliestStart   string   `json:"earliest_start,omitempty"`
	DependsOn       []string `json:"depends_on,omitempty"`
	Completed       bool     `json:"completed,omitempty"`
}

type eventInput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type,omitempty"`
}

type profileInput struct {
	Age       int    `json:"age"`
	MEQScore  *int   `json:"meq_score,omitempty"`
	SleepNeed string `json:"sleep_need,omitempty"`
}

func newGenerateCommand() *cobra.Command {
	var (
		inputPath string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a daily schedule from a JSON request file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(observability.LoggerConfig{
				Level:   cfg.LogLevel,
				Format:  cfg.LogFormat,
				Service: "circadia-cli",
			})

			payload, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read request file: %w", err)
			}
			var file requestFile
			if err := json.Unmarshal(payload, &file); err != nil {
				return fmt.Errorf("parse request file: %w", err)
			}

			genCmd, err := file.toCommand()
			if err != nil {
				return err
			}
			if genCmd.TargetDate == "" {
				genCmd.TargetDate = time.Now().Format("2006-01-02")
			}

			pipeline := services.NewSchedulePipeline(
				services.SolverConfig{TimeLimit: cfg.SolverTimeLimit}, logger)
			handler := commands.NewGenerateScheduleHandler(
				pipeline,
				persistence.NewMemoryScheduleRepository(),
				nil, nil, nil, nil,
				logger,
			)

			schedule, err := handler.Handle(cmd.Context(), genCmd)
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(cmd, schedule)
			}
			return printTable(cmd, schedule)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the JSON request file")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	cmd.MarkFlagRequired("input")
	return cmd
}

func (f requestFile) toCommand() (commands.GenerateScheduleCommand, error) {
	out := commands.GenerateScheduleCommand{
		UserID:      f.UserID,
		TargetDate:  f.TargetDate,
		Preferences: f.Preferences,
	}

	for _, t := range f.Tasks {
		task := domain.Task{
			ID:              t.ID,
			Title:           t.Title,
			DurationMinutes: t.DurationMinutes,
			Priority:        domain.TaskPriority(t.Priority),
			Energy:          domain.TaskEnergy(t.EnergyLevel),
			DependsOn:       t.DependsOn,
			Completed:       t.Completed,
		}
		if t.Deadline != "" {
			deadline, err := time.Parse(time.RFC3339, t.Deadline)
			if err != nil {
				return out, fmt.Errorf("task %s: parse deadline: %w", t.ID, err)
			}
			task.Deadline = &deadline
		}
		if t.EarliestStart != "" {
			minutes, err := domain.ParseClock(t.EarliestStart)
			if err != nil {
				return out, fmt.Errorf("task %s: parse earliest_start: %w", t.ID, err)
			}
			task.EarliestStartMinutes = &minutes
		}
		out.Tasks = append(out.Tasks, task)
	}

	for _, e := range f.FixedEvents {
		start, err := domain.ParseClock(e.StartTime)
		if err != nil {
			return out, fmt.Errorf("fixed event %s: parse start_time: %w", e.ID, err)
		}
		end, err := domain.ParseClock(e.EndTime)
		if err != nil {
			return out, fmt.Errorf("fixed event %s: parse end_time: %w", e.ID, err)
		}
		out.FixedEvents = append(out.FixedEvents, domain.FixedEvent{
			ID:           e.ID,
			Title:        e.Title,
			StartMinutes: start,
			EndMinutes:   end,
			Type:         e.Type,
		})
	}

	out.Profile = domain.UserProfile{Age: f.Profile.Age, MEQScore: f.Profile.MEQScore}
	if f.Profile.SleepNeed != "" {
		need := domain.SleepNeed(f.Profile.SleepNeed)
		out.Profile.SleepNeed = &need
	}
	return out, nil
}

func printJSON(cmd *cobra.Command, schedule *domain.GeneratedSchedule) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(scheduleView(schedule))
}

func scheduleView(s *domain.GeneratedSchedule) map[string]any {
	blocks := make([]map[string]any, len(s.Blocks))
	for i, b := range s.Blocks {
		entry := map[string]any{
			"type":             string(b.Type),
			"name":             b.Name,
			"start_time":       domain.FormatMinutes(b.StartMinutes),
			"end_time":         domain.FormatMinutes(b.EndMinutes),
			"duration_minutes": b.EndMinutes - b.StartMinutes,
		}
		if b.ReferenceID != "" {
			entry["reference_id"] = b.ReferenceID
		}
		if b.NextDay {
			entry["next_day"] = true
		}
		blocks[i] = entry
	}
	return map[string]any{
		"schedule_id":          s.ScheduleID.String(),
		"user_id":              s.UserID,
		"target_date":          s.TargetDate.Format("2006-01-02"),
		"blocks":               blocks,
		"metrics":              s.Metrics,
		"warnings":             s.Warnings,
		"generation_timestamp": s.GeneratedAt.Format(time.RFC3339),
	}
}

func printTable(cmd *cobra.Command, schedule *domain.GeneratedSchedule) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Schedule %s for %s on %s\n\n",
		schedule.ScheduleID, schedule.UserID, schedule.TargetDate.Format("2006-01-02"))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tTYPE\tNAME")
	for _, b := range schedule.Blocks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			domain.FormatMinutes(b.StartMinutes),
			domain.FormatMinutes(b.EndMinutes),
			b.Type, b.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(schedule.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, warning := range schedule.Warnings {
			fmt.Fprintf(out, "  - %s\n", warning)
		}
	}
	return nil
}
