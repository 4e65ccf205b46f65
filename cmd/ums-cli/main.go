package main

import (
	"umsassist-backend/cmd/ums-cli/commands"
	"umsassist-backend/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
