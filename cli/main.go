package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Println("Usage: cargoflow-cli <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  health                          Check API availability")
	fmt.Println("  items [query]                   List warehouse items (query e.g. '?status=FLAGGED')")
	fmt.Println("  grouped [query]                 List items grouped by shipping mark")
	fmt.Println("  status <id> <target>            Request an item status transition")
	fmt.Println("  claims [query]                  List claims")
	fmt.Println("  claim <tracking> <name> [desc]  File a new claim")
	fmt.Println()
	fmt.Println("Environment: CARGOFLOW_API_URL, CARGOFLOW_TOKEN")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	client := NewApiClient()
	arg := func(i int) string {
		if len(os.Args) > i {
			return os.Args[i]
		}
		return ""
	}

	var err error
	switch os.Args[1] {
	case "health":
		ok, herr := client.CheckHealth()
		err = herr
		if ok {
			fmt.Println("API is up")
		}
	case "items":
		var resp *ListResponse
		if resp, err = client.ListItems(arg(2)); err == nil {
			fmt.Printf("%d items\n", resp.Count)
			for _, row := range resp.Results {
				fmt.Printf("  [%v] %v  %v  qty=%v  %v\n",
					row["id"], row["tracking_id"], row["shipping_mark"], row["quantity"], row["status"])
			}
		}
	case "grouped":
		var resp *GroupedResponse
		if resp, err = client.ListGrouped(arg(2)); err == nil {
			fmt.Printf("%d shipping marks\n", resp.Count)
			for _, g := range resp.Groups {
				fmt.Printf("  %-20s items=%d qty=%d cbm=%s weight=%s\n",
					g.ShippingMark, g.ItemCount, g.TotalQuantity, g.TotalCbm, g.TotalWeight)
			}
		}
	case "status":
		if arg(2) == "" || arg(3) == "" {
			usage()
			os.Exit(1)
		}
		if err = client.ChangeItemStatus(arg(2), arg(3)); err == nil {
			fmt.Println("status updated")
		}
	case "claims":
		var resp *ListResponse
		if resp, err = client.ListClaims(arg(2)); err == nil {
			fmt.Printf("%d claims\n", resp.Count)
			for _, row := range resp.Results {
				fmt.Printf("  [%v] %v  %v  %v\n", row["id"], row["tracking_id"], row["item_name"], row["status"])
			}
		}
	case "claim":
		if arg(2) == "" || arg(3) == "" {
			usage()
			os.Exit(1)
		}
		if err = client.FileClaim(arg(2), arg(3), arg(4)); err == nil {
			fmt.Println("claim filed")
		}
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
