// Package config loads the render-tools configuration.
//
// Values are layered in this order, later layers winning:
//
//  1. built-in defaults (Default)
//  2. the YAML config file, when one is given
//  3. RENDER_TOOLS_* environment variables, which may come from a .env file
//
// The merged result is validated with go-playground/validator before use.
package config
