package main

import (
	"github.com/tanpawarit/Chative-Reservation-Agent/cmd"
	_ "github.com/tanpawarit/Chative-Reservation-Agent/pkg/logger/autoload"
)

func main() {
	cmd.Execute()
}
