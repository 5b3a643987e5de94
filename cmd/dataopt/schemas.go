package main

import (
	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vmprov/dataopt/jsonschema"
	"github.com/vmprov/dataopt/schema"
)

func newSchemasCmd() *cobra.Command {
	var asJSONSchema bool
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the known data types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := schema.Builtin()
			if asJSONSchema {
				docs := make(map[string]*jsonschema.Schema, len(reg.Names()))
				for _, name := range reg.Names() {
					d, _ := reg.Lookup(name)
					docs[name] = jsonschema.FromDescriptor(d)
				}
				b, err := j.MarshalIndent(docs, "", "  ")
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(b, '\n'))
				return err
			}

			out := make([]map[string]any, 0, len(reg.Names()))
			for _, name := range reg.Names() {
				d, _ := reg.Lookup(name)
				types := map[string]string{}
				for _, ft := range d.Types {
					types[ft.Field] = string(ft.Type)
				}
				allowed := map[string][]string{}
				for _, av := range d.Allowed {
					allowed[av.Field] = av.Values
				}
				out = append(out, map[string]any{
					"name":     d.Name,
					"required": d.Required,
					"types":    types,
					"allowed":  allowed,
				})
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&asJSONSchema, "json-schema", false, "print JSON Schema documents keyed by data type")
	return cmd
}
