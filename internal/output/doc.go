// Package output renders command results for defectview.
//
// # Output Types
//
// Each command produces one structured value:
//
//   - ExtractOutput: issues, headings and problems of a report (defectview extract)
//   - ViewOutput: the resolved listing, section visibility and sidebar (defectview view)
//   - CheckOutput: extraction problems and weight findings (defectview check)
//   - CacheOutput: extraction cache statistics (defectview cache info)
//
// # Format Types
//
// Three output formats are supported:
//
//   - YAML (default): self-documenting, human-readable
//   - JSON: machine-readable, same structure as YAML
//   - Text: a terminal summary with coloured severity headers
//
// # Usage
//
//	formatter, err := output.GetFormatter(output.FormatYAML)
//	if err != nil {
//	    return err
//	}
//	return formatter.FormatToWriter(cmd.OutOrStdout(), result)
package output
