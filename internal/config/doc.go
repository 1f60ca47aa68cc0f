// Package config defines the format-agnostic settings model for the
// abcscene tool, along with the loaders that read it from YAML or TOML
// files.
//
// The `config.Model` carries defaults only. The CLI applies explicitly set
// flags on top of a loaded model before handing the result to the app.
package config
