package resources

import "fmt"

// Collections of the built-in catalog.
const (
	CollectionUsers        = "users"
	CollectionRoles        = "roles"
	CollectionRepositories = "repositories"
	CollectionTasks        = "tasks"
	CollectionRuns         = "runs"
)

// userPage is the number of users a store loads; SeedCatalog creates more so
// bookmarks to later users go through the lookup fallback.
const userPage = 50

// SeedCatalog fills c with deterministic demo data.
func SeedCatalog(c *Catalog) {
	users := []Record{
		{ID: "admin", Name: "admin", Kind: "User", Status: "Active", Age: "400d", Fields: []Field{{"Email", "admin@example.org"}, {"Source", "default"}}},
		{ID: "alice", Name: "alice", Kind: "User", Status: "Active", Age: "90d", Fields: []Field{{"Email", "alice@example.org"}, {"Source", "ldap"}}},
		{ID: "anonymous", Name: "anonymous", Kind: "User", Status: "Disabled", Age: "400d", Fields: []Field{{"Source", "default"}}},
		{ID: "bob", Name: "bob", Kind: "User", Status: "Locked", Age: "12d", Fields: []Field{{"Email", "bob@example.org"}, {"Source", "ldap"}}},
		{ID: "carol", Name: "carol", Kind: "User", Status: "Active", Age: "3h", Fields: []Field{{"Email", "carol@example.org"}, {"Source", "saml"}}},
		{ID: "deploy bot", Name: "deploy bot", Kind: "User", Status: "Active", Age: "30d", Fields: []Field{{"Source", "token"}}},
	}
	c.Put(CollectionUsers, expandMockRecords(users, userPage+10)...)

	roleGrants := map[string][]string{
		"admin":      {"nx-admin"},
		"alice":      {"nx-developer", "nx-deploy"},
		"anonymous":  {"nx-anonymous"},
		"bob":        {"nx-developer"},
		"carol":      {"nx-readonly"},
		"deploy bot": {"nx-deploy"},
	}
	for user, roles := range roleGrants {
		for _, role := range roles {
			c.Put(CollectionRoles, Record{
				ID: role, Name: role, Kind: "Role", Status: "Active", Parent: user,
				Fields: []Field{{"Privileges", rolePrivileges(role)}},
			})
		}
	}

	c.Put(CollectionRepositories,
		Record{ID: "maven-central", Name: "maven-central", Kind: "maven2", Status: "Online", Age: "400d", Fields: []Field{{"Type", "proxy"}, {"Remote", "https://repo1.maven.org/maven2/"}}},
		Record{ID: "maven-releases", Name: "maven-releases", Kind: "maven2", Status: "Online", Age: "400d", Fields: []Field{{"Type", "hosted"}}},
		Record{ID: "npm-group", Name: "npm-group", Kind: "npm", Status: "Online", Age: "60d", Fields: []Field{{"Type", "group"}, {"Members", "npm-hosted, npm-proxy"}}},
		Record{ID: "docker-hosted", Name: "docker-hosted", Kind: "docker", Status: "Offline", Age: "2d", Fields: []Field{{"Type", "hosted"}, {"HTTP port", "8082"}}},
	)

	c.Put(CollectionTasks,
		Record{ID: 1, Name: "rebuild-index", Kind: "Task", Status: "Succeeded", Age: "6h"},
		Record{ID: 2, Name: "compact-blobstore", Kind: "Task", Status: "Running", Age: "22m"},
		Record{ID: 7, Name: "purge-unused", Kind: "Task", Status: "Failed", Age: "1d"},
		Record{ID: 42, Name: "nightly-backup", Kind: "Task", Status: "Succeeded", Age: "14d"},
	)
	for _, task := range c.List(CollectionTasks, nil) {
		for run := 1; run <= 3; run++ {
			status := "Succeeded"
			if task.Status == "Failed" && run == 3 {
				status = "Failed"
			}
			c.Put(CollectionRuns, Record{
				ID:     run,
				Name:   fmt.Sprintf("%s #%d", task.Name, run),
				Kind:   "Run",
				Status: status,
				Age:    fmt.Sprintf("%dd", run),
				Parent: task.ID,
			})
		}
	}
}

func rolePrivileges(role string) string {
	switch role {
	case "nx-admin":
		return "nx-all"
	case "nx-deploy":
		return "nx-repository-view-*-*-add, nx-repository-view-*-*-edit"
	case "nx-anonymous", "nx-readonly":
		return "nx-repository-view-*-*-browse, nx-repository-view-*-*-read"
	default:
		return "nx-repository-view-*-*-*"
	}
}

// expandMockRecords pads a record list to a target length by cloning entries
// with deterministic "zz-" names so existing sort expectations stay stable.
func expandMockRecords(records []Record, target int) []Record {
	if len(records) == 0 || len(records) >= target {
		return records
	}

	out := make([]Record, len(records), target)
	copy(out, records)

	cloneRound := 1
	for len(out) < target {
		for i := 0; i < len(records) && len(out) < target; i++ {
			base := records[i]
			clone := base
			clone.Name = fmt.Sprintf("zz-%s-%02d", base.Name, cloneRound)
			clone.ID = clone.Name
			out = append(out, clone)
		}
		cloneRound++
	}
	return out
}
