// Command polytope generates, evaluates and exports polytopes from the
// command line.
package main

import "github.com/golang/glog"

func main() {
	defer glog.Flush()
	Execute()
}
