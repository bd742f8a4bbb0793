package main

import "github.com/snmp-tools/mibfs/cmd/root"

func main() {
	root.Execute()
}
