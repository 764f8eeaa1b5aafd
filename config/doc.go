// Package config reads the check-fullwidth-spaces TOML configuration file.
//
// Here's an example configuration file:
//
//     directories = ["posts", "drafts"]
//     format = ".md"
//     output = "json"
//     deadline = "30s"
//     exclude = ["_index\\.md$"]
//
// The file is named .fwspace.toml and is looked up in the working directory and its parents
// unless --config is given. Relative paths are resolved against the directory holding the file.
package config
