package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/cli/shared"
	clierrors "github.com/geotagx/geotagx-validator/internal/errors"
	"github.com/geotagx/geotagx-validator/internal/schemaexport"
	"github.com/geotagx/geotagx-validator/internal/validation"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [kind]",
	Short: "Show the schema of a document kind",
	Long: `Show the fields, identifiers and references of a document schema.

Without a kind, lists the document kinds and their schema versions.
With --json-schema, prints the schema as a JSON Schema (draft 2020-12)
document usable by editors and other validators.

Kinds:
  project        - Project metadata (required)
  task_presenter - Languages, subject type and questionnaire (required)
  tutorial       - Tutorial subjects and expected answers (optional)`,
	Example: `  # List kinds and versions
  geotagx-validator schema

  # Show the task presenter schema
  geotagx-validator schema task_presenter

  # Export a JSON Schema that rejects unknown fields
  geotagx-validator schema project --json-schema --strict > project.schema.json`,
	Args:          cobra.MaximumNArgs(1),
	GroupID:       GroupValidation,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := schemaRequest{}
		if len(args) == 1 {
			req.Kind = args[0]
		}
		req.Version, _ = cmd.Flags().GetString("version")
		req.JSONSchema, _ = cmd.Flags().GetBool("json-schema")
		req.Strict, _ = cmd.Flags().GetBool("strict")
		req.Locale, _ = cmd.Flags().GetString("locale")
		return runSchema(req, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().String("version", "", "Schema version (default: latest)")
	schemaCmd.Flags().Bool("json-schema", false, "Print the schema as JSON Schema")
	schemaCmd.Flags().Bool("strict", false, "Reject unknown fields in the exported JSON Schema")
	schemaCmd.Flags().String("locale", validation.DefaultLocale, "Locale required in localized fields of the exported JSON Schema")
}

type schemaRequest struct {
	Kind       string
	Version    string
	JSONSchema bool
	Strict     bool
	Locale     string
}

func runSchema(req schemaRequest, out, errOut io.Writer) error {
	registry, err := validation.DefaultRegistry()
	if err != nil {
		return shared.Fail(errOut, clierrors.SchemaRegistryUnavailable(err), ExitMissingDependency)
	}

	if req.Kind == "" {
		if req.JSONSchema || req.Version != "" {
			return shared.Fail(errOut, clierrors.NewArgumentErrorWithUsage(
				"a document kind is required with --json-schema or --version",
				"geotagx-validator schema <kind> [--version V] [--json-schema]"), ExitInvalidArguments)
		}
		printKinds(registry, out)
		return nil
	}

	kind, err := validation.ParseDocumentKind(req.Kind)
	if err != nil {
		return shared.Fail(errOut, clierrors.UnknownDocumentKind(req.Kind, validation.ValidDocumentKinds()), ExitInvalidArguments)
	}

	var schema *validation.Schema
	var ok bool
	if req.Version == "" {
		schema, ok = registry.Latest(kind)
	} else {
		schema, ok = registry.Lookup(kind, req.Version)
	}
	if !ok {
		return shared.Fail(errOut, clierrors.UnknownSchemaVersion(string(kind), req.Version, registry.Versions(kind)), ExitInvalidArguments)
	}

	if !req.JSONSchema {
		printSchema(schema, out)
		return nil
	}

	opts := schemaexport.Options{Strict: req.Strict, DefaultLocale: req.Locale}
	if _, err := schemaexport.Compile(schema, opts); err != nil {
		return shared.Fail(errOut, err, ExitValidationFailed)
	}
	data, err := schemaexport.Marshal(schema, opts)
	if err != nil {
		return shared.Fail(errOut, err, ExitValidationFailed)
	}
	_, err = out.Write(data)
	return err
}

// printKinds lists every document kind with its schema versions.
func printKinds(registry *validation.Registry, out io.Writer) {
	fmt.Fprintf(out, "Document kinds\n")
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", 40))
	for _, kind := range registry.Kinds() {
		required := "optional"
		if kind.Required() {
			required = "required"
		}
		fmt.Fprintf(out, "%-16s %-10s versions: %s\n", kind, required, strings.Join(registry.Versions(kind), ", "))
	}
}

// printSchema prints the schema for a document kind.
func printSchema(schema *validation.Schema, out io.Writer) {
	fmt.Fprintf(out, "Schema for %s documents (version %s)\n", schema.Kind, schema.Version)
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 40))
	if schema.Description != "" {
		fmt.Fprintf(out, "%s\n\n", schema.Description)
	}

	fmt.Fprintf(out, "Fields:\n")
	fmt.Fprintf(out, "%s\n", strings.Repeat("-", 40))
	for i := range schema.Fields {
		printSchemaField(&schema.Fields[i], "", out)
	}

	if len(schema.Identifiers) > 0 {
		fmt.Fprintf(out, "\nIdentifiers:\n")
		for _, id := range schema.Identifiers {
			unique := ""
			if id.Unique {
				unique = " (unique)"
			}
			fmt.Fprintf(out, "  %s: %s%s\n", id.Namespace, id.Path, unique)
		}
	}

	if len(schema.References) > 0 {
		fmt.Fprintf(out, "\nReferences:\n")
		for _, ref := range schema.References {
			fmt.Fprintf(out, "  %s -> %s/%s", ref.Path, ref.Target, ref.Namespace)
			if len(ref.Reserved) > 0 {
				fmt.Fprintf(out, " (also: %s)", strings.Join(ref.Reserved, ", "))
			}
			fmt.Fprintf(out, "\n")
		}
	}

	for _, flow := range schema.Flows {
		fmt.Fprintf(out, "\nFlow %s:\n", flow.Name)
		fmt.Fprintf(out, "  nodes: %s (key: %s)\n", flow.Nodes, flow.Key)
		fmt.Fprintf(out, "  edges: %s\n", strings.Join(append([]string{flow.Default}, flow.Branches...), ", "))
		fmt.Fprintf(out, "  ends at: %s\n", flow.Terminal)
	}
}

// printSchemaField prints a single schema field with indentation.
func printSchemaField(field *validation.FieldRule, indent string, out io.Writer) {
	required := ""
	if field.Required {
		required = " (required)"
	}

	fmt.Fprintf(out, "%s%s: %s%s\n", indent, field.Name, field.TypeLabel(), required)

	if field.Description != "" {
		fmt.Fprintf(out, "%s  # %s\n", indent, field.Description)
	}
	if field.Pattern != "" {
		fmt.Fprintf(out, "%s  # pattern: %s\n", indent, field.Pattern)
	}
	if field.MinItems > 0 {
		fmt.Fprintf(out, "%s  # at least %d element(s)\n", indent, field.MinItems)
	}

	// Print children for nested fields
	children := field.Fields
	if field.Items != nil {
		children = field.Items.Fields
	}
	for i := range children {
		printSchemaField(&children[i], indent+"  ", out)
	}
}
