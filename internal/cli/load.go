package cli

import (
	"github.com/spf13/cobra"

	"med-diagnosis-api/apiv1"
	"med-diagnosis-api/diagnosis"
	"med-diagnosis-api/internal/config"
	"med-diagnosis-api/internal/logger"
)

var loadFile string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a YAML knowledge file into the database",
	Long:  "Replaces all stored diseases with the file contents and rebuilds the symptom catalogue from their symptoms.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)

		path := loadFile
		if path == "" {
			path = cfg.KnowledgeFile
		}

		kb, err := diagnosis.LoadKnowledgeFile(path)
		if err != nil {
			return err
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(&apiv1.Disease{}, &apiv1.Symptom{}); err != nil {
			return err
		}

		report, err := kb.Apply(db)
		if err != nil {
			return err
		}

		log.Info("knowledge base loaded",
			"file", path,
			"deleted", report.DeletedDiseases,
			"diseases", report.LoadedDiseases,
			"symptoms", report.LoadedSymptoms,
		)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVarP(&loadFile, "file", "f", "", "knowledge file path (defaults to MEDAPI_KNOWLEDGE_FILE)")
}
