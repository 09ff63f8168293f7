package main

import "timesheet-management/cmd"

func main() {
	cmd.Execute()
}
