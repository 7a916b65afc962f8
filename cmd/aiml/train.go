package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/NIKHIL-58/AI-ML/internal/service"
)

func newTrainCmd(configPath *string) *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "train the sentiment model and store the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			src, err := modelSource(cfg)
			if err != nil {
				return err
			}
			if dataPath != "" {
				src.TrainData = dataPath
			}
			m, err := service.TrainAndStoreModel(context.Background(), src)
			if err != nil {
				return err
			}
			logutil.GetLogger(context.Background()).Info("model stored",
				zap.String("model_key", src.Key),
				zap.Int("samples", m.Samples),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "tsv dataset (label<TAB>text), defaults to the bundled reviews")
	return cmd
}
