package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/edvin/cms/internal/admin"
	"github.com/edvin/cms/internal/cli"
	"github.com/edvin/cms/internal/cms"
	"github.com/edvin/cms/internal/config"
	"github.com/edvin/cms/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		cmdList(os.Args[2:])
	case "search":
		cmdSearch(os.Args[2:])
	case "get":
		cmdGet(os.Args[2:])
	case "create":
		cmdCreate(os.Args[2:])
	case "update":
		cmdUpdate(os.Args[2:])
	case "delete":
		cmdDelete(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	case "template":
		cmdTemplate(os.Args[2:])
	case "family":
		cmdFamily(os.Args[2:])
	case "countries":
		cmdCountries()
	case "cities":
		cmdCities(os.Args[2:])
	case "profiles":
		cmdProfiles(os.Args[2:])
	case "use":
		cmdUse(os.Args[2:])
	case "active":
		cmdActive()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// setup loads config (the active profile, if any, overrides the
// environment) and builds an API client.
func setup() (*cms.Client, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if active, _ := cli.GetActive(); active != "" {
		profile, err := cli.LoadProfile(active)
		if err != nil {
			fatal(err)
		}
		cfg.APIBaseURL = profile.APIURL
		if profile.PageSize > 0 {
			cfg.PageSize = profile.PageSize
		}
	}

	logger := logging.NewLogger(cfg)
	return cms.NewClient(cfg.APIBaseURL, logger), cfg
}

func transfer() (*admin.Transfer, *config.Config) {
	client, cfg := setup()
	logger := logging.NewLogger(cfg)
	return admin.NewTransfer(client, admin.LogNotifier{Logger: logger}, logger), cfg
}

// newForm builds a Form so create and update go through the same draft
// normalization the edit dialog applies.
func newForm() (*admin.Form, *config.Config) {
	client, cfg := setup()
	logger := logging.NewLogger(cfg)
	return admin.NewForm(client, admin.LogNotifier{Logger: logger}, logger), cfg
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 0, "Page number (0-based)")
	size := fs.Int("size", 0, "Page size (default: profile or config page size)")
	sortBy := fs.String("sort", "id", "Sort field")
	sortDir := fs.String("dir", "ASC", "Sort direction (ASC or DESC)")
	fs.Parse(args)

	client, cfg := setup()
	if *size <= 0 {
		*size = cfg.PageSize
	}

	result, err := client.ListCustomers(context.Background(), *page, *size, *sortBy, *sortDir)
	if err != nil {
		fatal(err)
	}

	printCustomers(result.Content)
	fmt.Printf("\nPage %d of %d\n", *page+1, result.TotalPages)
}

func cmdSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	page := fs.Int("page", 0, "Page number (0-based)")
	size := fs.Int("size", 0, "Page size")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli search [-page N] [-size N] <keyword>")
		os.Exit(1)
	}

	client, cfg := setup()
	if *size <= 0 {
		*size = cfg.PageSize
	}

	result, err := client.SearchCustomers(context.Background(), strings.Join(fs.Args(), " "), *page, *size)
	if err != nil {
		fatal(err)
	}

	printCustomers(result.Content)
	fmt.Printf("\nPage %d of %d\n", *page+1, result.TotalPages)
}

func cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli get <customer-id>")
		os.Exit(1)
	}

	id := parseID(args[0])
	client, _ := setup()

	customer, err := client.GetCustomer(context.Background(), id)
	if err != nil {
		fatal(err)
	}

	printJSON(customer)
}

func cmdCreate(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	file := fs.String("file", "", "JSON file with the customer payload (use - for stdin)")
	fs.Parse(args)

	customer := readCustomer(*file)
	form, _ := newForm()
	form.SetDraft(admin.DraftFromCustomer(customer))

	created, err := form.Submit(context.Background())
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Created customer %d (%s %s)\n", created.ID, created.FirstName, created.LastName)
}

func cmdUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	file := fs.String("file", "", "JSON file with the customer payload (use - for stdin)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli update -file <payload.json> <customer-id>")
		os.Exit(1)
	}

	id := parseID(fs.Arg(0))
	customer := readCustomer(*file)
	customer.ID = id

	form, _ := newForm()
	form.Load(customer)

	updated, err := form.Submit(context.Background())
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Updated customer %d (%s %s)\n", updated.ID, updated.FirstName, updated.LastName)
}

func cmdDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli delete [-yes] <customer-id>")
		os.Exit(1)
	}

	id := parseID(fs.Arg(0))

	if !*yes {
		fmt.Printf("Delete customer %d? [y/N] ", id)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return
		}
	}

	client, _ := setup()
	if err := client.DeleteCustomer(context.Background(), id); err != nil {
		fatal(err)
	}

	fmt.Printf("Deleted customer %d\n", id)
}

func cmdImport(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli import <file.xlsx>")
		os.Exit(1)
	}

	tr, _ := transfer()
	result, err := tr.Import(context.Background(), args[0])
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Imported: %d, duplicates skipped: %d, rows with errors: %d\n",
		result.ImportedCount, result.SkippedDuplicates, len(result.Errors))
	for _, rowErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", rowErr)
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dir := fs.String("dir", ".", "Directory to write the exported file to")
	fs.Parse(args)

	tr, _ := transfer()
	path, err := tr.Export(context.Background(), *dir)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Exported to %s\n", path)
}

func cmdTemplate(args []string) {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	out := fs.String("o", "", "Write the template to a file instead of stdout")
	fs.Parse(args)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		w = f
	}

	if err := admin.WriteTemplate(w); err != nil {
		fatal(err)
	}

	if *out != "" {
		fmt.Printf("Template written to %s\n", *out)
	}
}

func cmdFamily(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli family add|remove <customer-id> <family-member-id>")
		os.Exit(1)
	}

	customerID := parseID(args[1])
	memberID := parseID(args[2])
	client, _ := setup()

	switch args[0] {
	case "add":
		if err := client.AddFamilyMember(context.Background(), customerID, memberID); err != nil {
			fatal(err)
		}
		fmt.Printf("Added customer %d as family member of %d\n", memberID, customerID)
	case "remove":
		if err := client.RemoveFamilyMember(context.Background(), customerID, memberID); err != nil {
			fatal(err)
		}
		fmt.Printf("Removed customer %d from family members of %d\n", memberID, customerID)
	default:
		fmt.Fprintln(os.Stderr, "Usage: cms-cli family add|remove <customer-id> <family-member-id>")
		os.Exit(1)
	}
}

func cmdCountries() {
	client, _ := setup()

	countries, err := client.Countries(context.Background())
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%-6s %s\n", "ID", "NAME")
	for _, c := range countries {
		fmt.Printf("%-6d %s\n", c.ID, c.Name)
	}
}

func cmdCities(args []string) {
	fs := flag.NewFlagSet("cities", flag.ExitOnError)
	countryID := fs.Int64("country", 0, "Filter by country ID")
	fs.Parse(args)

	client, _ := setup()

	var (
		cities []cms.City
		err    error
	)
	if *countryID > 0 {
		cities, err = client.CitiesByCountry(context.Background(), *countryID)
	} else {
		cities, err = client.Cities(context.Background())
	}
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%-6s %s\n", "ID", "NAME")
	for _, c := range cities {
		fmt.Printf("%-6d %s\n", c.ID, c.Name)
	}
}

func cmdProfiles(args []string) {
	// Handle the add/delete subcommands first.
	if len(args) > 0 {
		switch args[0] {
		case "add":
			fs := flag.NewFlagSet("profiles add", flag.ExitOnError)
			url := fs.String("url", "", "Backend API base URL (e.g. http://localhost:8080/api)")
			pageSize := fs.Int("page-size", 0, "Default page size for this profile")
			fs.Parse(args[1:])

			if fs.NArg() < 1 || *url == "" {
				fmt.Fprintln(os.Stderr, "Usage: cms-cli profiles add -url <api-url> [-page-size N] <name>")
				os.Exit(1)
			}

			profile, err := cli.SaveProfile(fs.Arg(0), *url, *pageSize)
			if err != nil {
				fatal(err)
			}
			fmt.Printf("Saved profile %q\n", profile.Name)
			return
		case "delete":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "Usage: cms-cli profiles delete <name>")
				os.Exit(1)
			}
			if err := cli.DeleteProfile(args[1]); err != nil {
				fatal(err)
			}
			fmt.Printf("Deleted profile %q\n", args[1])
			return
		}
	}

	profiles, err := cli.ListProfiles()
	if err != nil {
		fatal(err)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles found. Add one with: cms-cli profiles add -url <api-url> <name>")
		return
	}

	active, _ := cli.GetActive()

	fmt.Printf("%-20s %-40s %s\n", "NAME", "API URL", "ACTIVE")
	for _, p := range profiles {
		marker := ""
		if p.Name == active {
			marker = " *"
		}
		fmt.Printf("%-20s %-40s %s\n", p.Name, p.APIURL, marker)
	}
}

func cmdUse(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cms-cli use <profile-name>")
		os.Exit(1)
	}

	name := args[0]
	if err := cli.SetActive(name); err != nil {
		fatal(err)
	}

	fmt.Printf("Active profile set to %q\n", name)
}

func cmdActive() {
	active, err := cli.GetActive()
	if err != nil || active == "" {
		fmt.Println("No active profile. Set one with: cms-cli use <name>")
		return
	}

	profile, err := cli.LoadProfile(active)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading active profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Active profile: %s\n", profile.Name)
	fmt.Printf("API URL:        %s\n", profile.APIURL)
	if profile.PageSize > 0 {
		fmt.Printf("Page size:      %d\n", profile.PageSize)
	}
}

func printCustomers(customers []cms.Customer) {
	if len(customers) == 0 {
		fmt.Println("No customers found.")
		return
	}

	fmt.Printf("%-6s %-15s %-15s %-12s %-14s %-30s %s\n",
		"ID", "FIRST NAME", "LAST NAME", "BORN", "NIC", "EMAIL", "GENDER")
	for _, c := range customers {
		fmt.Printf("%-6d %-15s %-15s %-12s %-14s %-30s %s\n",
			c.ID, c.FirstName, c.LastName, c.DateOfBirth, c.NIC, c.Email, c.Gender)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(data))
}

func readCustomer(file string) *cms.Customer {
	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		os.Exit(1)
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		fatal(err)
	}

	var customer cms.Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		fatal(fmt.Errorf("parse customer payload: %w", err))
	}

	return &customer
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid customer ID %q\n", s)
		os.Exit(1)
	}
	return id
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `cms-cli — customer management from the terminal

Usage:
  cms-cli list [-page N] [-size N] [-sort FIELD] [-dir ASC|DESC]
  cms-cli search [-page N] [-size N] <keyword>
  cms-cli get <customer-id>
  cms-cli create -file <payload.json>
  cms-cli update -file <payload.json> <customer-id>
  cms-cli delete [-yes] <customer-id>
  cms-cli import <file.xlsx>
  cms-cli export [-dir DIR]
  cms-cli template [-o FILE]
  cms-cli family add|remove <customer-id> <family-member-id>
  cms-cli countries
  cms-cli cities [-country ID]
  cms-cli profiles [add -url URL <name> | delete <name>]
  cms-cli use <profile-name>
  cms-cli active

Commands:
  list       List customers page by page
  search     Search customers by name, NIC or email
  get        Show one customer as JSON
  create     Create a customer from a JSON payload
  update     Update a customer from a JSON payload
  delete     Delete a customer (asks for confirmation)
  import     Upload an Excel file of customers
  export     Download all customers as an Excel file
  template   Print the CSV import template
  family     Link or unlink family members
  countries  List countries
  cities     List cities, optionally by country
  profiles   List, add or delete backend profiles
  use        Set the active profile
  active     Show the active profile

Profiles are stored in ~/.config/cms/profiles/. The active profile
overrides the CMS_API_URL environment variable.`)
}
