package main

import "github.com/spf13/cobra"

func newValidateCmd(rf *rootFlags) *cobra.Command {
	var data, loadFrom, dataType string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate one record against a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := rf.pipeline(cmd)
			if err != nil {
				return err
			}
			if err := checkDataType(p.Registry(), dataType); err != nil {
				return err
			}
			var record any
			if loadFrom != "" {
				if record, err = p.Load(loadFrom); err != nil {
					return err
				}
			} else {
				record = parseInline(data)
			}

			outcome := p.Validate(record, dataType)
			issues := make([]map[string]any, 0, len(outcome.Issues))
			for _, it := range outcome.Issues {
				issues = append(issues, map[string]any{"path": it.Path, "code": it.Code, "message": it.Message})
			}
			if err := printJSON(cmd, map[string]any{
				"data_type": dataType,
				"valid":     outcome.Valid,
				"errors":    outcome.Errors,
				"issues":    issues,
			}); err != nil {
				return err
			}
			if !outcome.Valid {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "inline record (JSON or YAML)")
	cmd.Flags().StringVar(&loadFrom, "load-from-file", "", "read the record from a file")
	cmd.Flags().StringVar(&dataType, "data-type", "", "schema to validate against")
	_ = cmd.MarkFlagRequired("data-type")
	cmd.MarkFlagsMutuallyExclusive("data", "load-from-file")
	cmd.MarkFlagsOneRequired("data", "load-from-file")
	return cmd
}
