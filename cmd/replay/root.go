package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/services"
	"wanderplan/pkg/jsonrepair"
	mem "wanderplan/pkg/memcache"
	"wanderplan/pkg/weather"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "replay",
		Short:         "Replay raw model responses through the itinerary pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRecoverCommand(), newProcessCommand())
	return root
}

func newRecoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recover [file|-]",
		Short: "Decode a raw model response and print the recovered JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			res, err := jsonrepair.Recover(raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "strategy: %s (repaired: %t)\n", res.Strategy, res.Repaired)
			return writeJSON(cmd.OutOrStdout(), res.Value)
		},
	}
}

func newProcessCommand() *cobra.Command {
	var requestPath string
	var withWeather bool

	cmd := &cobra.Command{
		Use:   "process [file|-]",
		Short: "Recover, normalize and reconcile a raw itinerary response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result, err := services.ProcessModelResponse(raw, req)
			if result != nil && result.Recovery != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "strategy: %s (repaired: %t)\n", result.Recovery.Strategy, result.Recovery.Repaired)
			}
			if err != nil {
				return err
			}

			it := result.Itinerary
			if withWeather {
				provider := weather.NewOpenMeteoClient(weather.Config{Timeout: 15 * time.Second}, mem.NewGeocodeCache())
				it.WeatherForecast = services.NewWeatherService(provider, nil).Aggregate(cmd.Context(), it, req)
			}
			return writeJSON(cmd.OutOrStdout(), it)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "path to the itinerary request JSON the response was generated for")
	cmd.Flags().BoolVar(&withWeather, "weather", false, "attach live Open-Meteo weather")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func loadRequest(path string) (*request_models.ItineraryRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	var req request_models.ItineraryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("open response: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
