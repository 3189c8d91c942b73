// Command vmsim simulates demand-paged virtual memory translation.
package main

import "github.com/sarchlab/vmsim/vmsim/cmd"

func main() {
	cmd.Execute()
}
