package main

import "github.com/SscSPs/invoice_flow_app/cmd/ifactl/cli"

func main() {
	cli.Execute()
}
