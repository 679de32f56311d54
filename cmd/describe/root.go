package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-image-describer/internal/config"
	"go-image-describer/internal/container"
	"go-image-describer/internal/logger"
	"go-image-describer/pkg/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		mimeFlag   string
		envFlag    string
		compactOut bool
	)

	cmd := &cobra.Command{
		Use:           "describe <image>",
		Short:         "Describe a local image with the same analysis the HTTP service runs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFlag != "" {
				if err := config.LoadDotEnv(envFlag); err != nil {
					return fmt.Errorf("load %s: %w", envFlag, err)
				}
			} else {
				_ = config.LoadDotEnv()
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.MetricsEnabled = false

			logger.SetOutput(cmd.ErrOrStderr())
			logger.Configure(cfg.LogLevel)
			gin.SetMode(gin.ReleaseMode)

			upload, err := readImage(args[0], mimeFlag)
			if err != nil {
				return err
			}

			c, err := container.NewContainer(cfg)
			if err != nil {
				return err
			}

			result, err := c.Service().Analyze(cmd.Context(), upload)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compactOut {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&mimeFlag, "mime", "", "MIME type to report when the reply names no format (sniffed from content by default)")
	cmd.Flags().StringVar(&envFlag, "env-file", "", "Read environment variables from this file instead of .env")
	cmd.Flags().BoolVar(&compactOut, "compact", false, "Print JSON on a single line")

	return cmd
}

func readImage(path, mimeOverride string) (*models.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	contentType := mimeOverride
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	return &models.Upload{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
