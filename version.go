// Package paretomdp provides the version information for pareto-mdp.
package paretomdp

// Version is the current version of pareto-mdp.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
