package search

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/sensorfab/testreport-sdk/pkg/testreport"
)

func statusSprint(status testreport.Status) string {
	switch status {
	case testreport.StatusApproved:
		return color.New(color.FgGreen).Sprint(status)
	case testreport.StatusFailed:
		return color.New(color.FgRed, color.Bold).Sprint(status)
	case testreport.StatusWarning:
		return color.New(color.FgYellow).Sprint(status)
	}
	return color.New(color.FgYellow).Sprint(status)
}

func printDevice(device testreport.Device) {
	fmt.Printf("%s  %s  %s",
		color.New(color.Bold).Sprint(device.ID),
		device.DeviceType,
		statusSprint(device.OverallStatus),
	)
	if device.Batch != "" {
		fmt.Printf("  %s", device.Batch)
	}
	fmt.Printf("\n")

	for _, test := range device.Tests {
		fmt.Printf("  %s [%s]", test.TestName, statusSprint(test.Status))
		if test.Date != "" {
			fmt.Printf("  %s", test.Date)
		}
		fmt.Printf("\n")
		printParameters("    ", test.Parameters)
		for _, section := range test.Sections {
			fmt.Printf("    %s\n", color.New(color.Underline).Sprint(section.Name))
			printParameters("      ", section.Parameters)
		}
	}

	if device.ChipInfo != nil {
		fmt.Printf("  SIM: %s; %s (%s)", device.ChipInfo.Type,
			device.ChipInfo.Chip1.Carrier, device.ChipInfo.Chip1.CCID)
		if device.ChipInfo.Chip2 != nil {
			fmt.Printf("; %s (%s)", device.ChipInfo.Chip2.Carrier, device.ChipInfo.Chip2.CCID)
		}
		fmt.Printf("\n")
	}
}

func printParameters(indent string, params []testreport.Parameter) {
	for _, p := range params {
		fmt.Printf("%s%-28s %s", indent, p.Name, statusSprint(p.Status))
		if p.Measured != "" {
			fmt.Printf("  %s", p.Measured)
		}
		if p.Expected != "" {
			fmt.Printf("  (expected: %s)", p.Expected)
		}
		fmt.Printf("\n")
	}
}

func printDeviceList(parsed listResponse) {
	switch {
	case parsed.Batch != "":
		fmt.Printf("batch %s: %d device(s)\n\n", parsed.Batch, parsed.Count)
	case parsed.Workorder != nil:
		fmt.Printf("workorder #%05d: %d device(s)\n\n", *parsed.Workorder, parsed.Count)
	default:
		fmt.Printf("%d device(s)\n\n", parsed.Count)
	}
	for _, device := range parsed.Devices {
		printDevice(device)
		fmt.Printf("\n")
	}
}

func printDisambiguation(parsed listResponse) {
	fmt.Printf("batch '%s' matches %d workorders; repeat the search with one of:\n",
		parsed.Batch, len(parsed.Workorders))
	for _, workorder := range parsed.Workorders {
		fmt.Printf("  %s", color.New(color.Bold).Sprintf("#%05d", workorder.Number))
		if workorder.Title != "" {
			fmt.Printf("  %s", workorder.Title)
		}
		fmt.Printf("  (%d device(s))\n", workorder.Count)
	}
}
