// Package gen writes files of random lines for exercising the sorter.
package gen
