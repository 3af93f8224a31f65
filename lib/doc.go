// Package lib provide small helpers shared by the memory service and
// its tools: sample histograms, running averages, stack traces and
// stats formatting. They shall not depend on anything other than the
// standard library.
package lib
