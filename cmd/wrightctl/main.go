// wrightctl is the offline companion CLI: it runs the decision engine
// directly against a local model artifact without a running daemon.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/HerbHall/millwright/internal/artifact"
	"github.com/HerbHall/millwright/internal/decision"
	"github.com/HerbHall/millwright/internal/fleet"
	"github.com/HerbHall/millwright/internal/predictor"
	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/internal/version"
	"github.com/HerbHall/millwright/pkg/maint"
)

var (
	artifactDir string
	lax         bool
)

var rootCmd = &cobra.Command{
	Use:           "wrightctl",
	Short:         "Predictive maintenance decision engine CLI",
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&artifactDir, "artifacts", "models", "model artifact directory")
	rootCmd.PersistentFlags().BoolVar(&lax, "lax", false, "clamp out-of-range telemetry instead of rejecting it")
	rootCmd.AddCommand(predictCmd(), simulateCmd(), fleetCmd(), modelCmd())
	rootCmd.SetVersionTemplate(fmt.Sprintf("wrightctl %s\n", rootCmd.Version))
}

// loadEngine builds an engine from the local artifact directory. A missing
// or corrupt artifact degrades to the heuristic engine with a note on stderr.
func loadEngine(ctx context.Context) *predictor.Engine {
	arts, err := artifact.Load(ctx, artifactDir)
	if err != nil {
		reason := predictor.ReasonArtifactMissing
		if errors.Is(err, artifact.ErrCorrupt) {
			reason = predictor.ReasonArtifactCorrupt
		}
		fmt.Fprintf(os.Stderr, "warning: %v (using heuristic fallback)\n", err)
		return predictor.NewEngine(nil, zap.NewNop(), predictor.WithMissingReason(reason))
	}
	return predictor.NewEngine(arts, zap.NewNop())
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func predictCmd() *cobra.Command {
	var (
		temperature  float64
		vibration    float64
		current      float64
		pressure     float64
		runtimeHours int
		cycle        int
		enhanced     bool
		costPerHour  float64
		currency     string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict machine health from one telemetry reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			reading := maint.SensorReading{
				Temperature: temperature,
				Vibration:   vibration,
				Current:     current,
			}
			if cmd.Flags().Changed("pressure") {
				reading.Pressure = &pressure
			}
			if cmd.Flags().Changed("runtime-hours") {
				reading.RuntimeHours = &runtimeHours
			}
			if cmd.Flags().Changed("cycle") {
				reading.Cycle = &cycle
			}

			in, err := validate.Reading(reading, !lax)
			if err != nil {
				return err
			}

			engine := loadEngine(cmd.Context())
			core := engine.Predict(in)
			if !enhanced {
				return printJSON(core)
			}
			return printJSON(maint.EnhancedPrediction{
				PredictionResult: core,
				FailureTimeline:  decision.Timeline(core.HealthPercentage, core.PredictedRUL, core.Timestamp),
				Recommendations:  decision.Recommendations(in, core.HealthPercentage, core.PredictedRUL),
				Contributions:    decision.Contributions(in),
				CostEstimate:     decision.Cost(core.HealthPercentage, costPerHour, currency),
			})
		},
	}

	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "temperature in °C (required)")
	cmd.Flags().Float64VarP(&vibration, "vibration", "v", 0, "vibration in mm/s (required)")
	cmd.Flags().Float64VarP(&current, "current", "c", 0, "current in A (required)")
	cmd.Flags().Float64Var(&pressure, "pressure", validate.DefaultPressure, "pressure in PSI")
	cmd.Flags().IntVar(&runtimeHours, "runtime-hours", 0, "total operating hours")
	cmd.Flags().IntVar(&cycle, "cycle", 0, "duty cycle number")
	cmd.Flags().BoolVar(&enhanced, "enhanced", false, "include timeline, recommendations, contributions, and cost")
	cmd.Flags().Float64Var(&costPerHour, "cost-per-hour", decision.DefaultDowntimeCostPerHour, "downtime cost per hour")
	cmd.Flags().StringVar(&currency, "currency", decision.DefaultCurrency, "cost estimate currency")
	_ = cmd.MarkFlagRequired("temperature")
	_ = cmd.MarkFlagRequired("vibration")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func simulateCmd() *cobra.Command {
	var (
		sc       decision.Scenario
		pressure float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Compare a baseline reading against a what-if scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("pressure") {
				sc.BasePressure = &pressure
			}
			engine := loadEngine(cmd.Context())
			return printJSON(decision.Simulate(engine.Predict, sc))
		},
	}

	cmd.Flags().Float64Var(&sc.BaseTemperature, "temperature", 0, "baseline temperature in °C (required)")
	cmd.Flags().Float64Var(&sc.BaseVibration, "vibration", 0, "baseline vibration in mm/s (required)")
	cmd.Flags().Float64Var(&sc.BaseCurrent, "current", 0, "baseline current in A (required)")
	cmd.Flags().Float64Var(&pressure, "pressure", validate.DefaultPressure, "baseline pressure in PSI")
	cmd.Flags().IntVar(&sc.BaseRuntimeHours, "runtime-hours", 0, "baseline operating hours")
	cmd.Flags().Float64Var(&sc.TemperatureDelta, "temp-delta", 0, "temperature change in °C")
	cmd.Flags().Float64Var(&sc.LoadDeltaPercent, "load-delta", 0, "load change in percent")
	cmd.Flags().IntVar(&sc.RuntimeDelta, "runtime-delta", 0, "runtime hours change")
	_ = cmd.MarkFlagRequired("temperature")
	_ = cmd.MarkFlagRequired("vibration")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

func fleetCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Synthesize a one-shot fleet overview from the demo machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := loadEngine(cmd.Context())
			now := time.Now()
			gen := fleet.NewGenerator(now.Add(-time.Hour), seed)

			machines := fleet.DefaultMachines()
			status := maint.FleetStatus{Total: len(machines)}
			var healths []float64
			for _, mc := range machines {
				sample := gen.Sample(mc, now)
				in, err := validate.Reading(maint.SensorReading{
					Temperature: sample.Temperature,
					Vibration:   sample.Vibration,
					Current:     sample.Current,
					MachineID:   mc.MachineID,
				}, false)
				if err != nil {
					return err
				}
				verdict := engine.PredictRUL(in)

				tier := "critical"
				switch {
				case verdict.HealthPercentage >= 70:
					tier = "healthy"
					status.Healthy++
				case verdict.HealthPercentage >= 40:
					tier = "warning"
					status.Warning++
				default:
					status.Critical++
				}
				healths = append(healths, verdict.HealthPercentage)
				status.Machines = append(status.Machines, maint.FleetMachine{
					MachineID:        mc.MachineID,
					Name:             mc.Name,
					MachineType:      mc.MachineType,
					Location:         mc.Location,
					HealthPercentage: verdict.HealthPercentage,
					RiskLevel:        verdict.RiskLevel,
					PredictedRUL:     verdict.PredictedRUL,
					Status:           tier,
					RootCause:        verdict.RootCause,
					DaysToFailure:    verdict.PredictedRUL / 24,
					LastUpdated:      now,
				})
			}
			if len(healths) > 0 {
				status.AvgHealth = stat.Mean(healths, nil)
			}
			return printJSON(status)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "telemetry synthesizer seed (0 = from clock)")
	return cmd
}

func modelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Describe the local model artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			arts, err := artifact.Load(cmd.Context(), artifactDir)
			if err != nil {
				if errors.Is(err, artifact.ErrMissing) || errors.Is(err, artifact.ErrCorrupt) {
					return printJSON(map[string]any{
						"model_loaded": false,
						"error":        err.Error(),
					})
				}
				return err
			}
			return printJSON(map[string]any{
				"model_loaded":   true,
				"variant":        arts.Schema.Kind.String(),
				"model_version":  arts.Meta.ModelVersion,
				"algorithm":      arts.Meta.Algorithm,
				"feature_names":  arts.Meta.FeatureNames,
				"initial_rul":    arts.Meta.InitialRUL,
				"classifier":     arts.HasClassifier(),
				"schema_guessed": arts.SchemaGuessed,
			})
		},
	}
}
