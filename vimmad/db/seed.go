package db

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"vimma/vimmad/config"
	"vimma/vimmad/project"
	"vimma/vimmad/provider"
	"vimma/vimmad/schedule"
	"vimma/vimmad/user"
	"vimma/vimmad/vmconfig"
)

// seedData is reference data loaded once at startup: timezones,
// projects, roles, users, providers, configs and schedules. Records that
// already exist are left alone, so the file can stay in place across
// restarts.
type seedData struct {
	TimeZones []string `yaml:"timezones"`
	Projects  []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"projects"`
	Roles []struct {
		Name        string   `yaml:"name"`
		Permissions []string `yaml:"permissions"`
	} `yaml:"roles"`
	Users []struct {
		Username string   `yaml:"username"`
		Email    string   `yaml:"email"`
		Roles    []string `yaml:"roles"`
		Projects []string `yaml:"projects"`
	} `yaml:"users"`
	Providers []struct {
		Name               string `yaml:"name"`
		Kind               string `yaml:"kind"`
		MaxOverrideSeconds int64  `yaml:"max_override_seconds"`
		IsSpecial          bool   `yaml:"is_special"`
		Default            bool   `yaml:"default"`
		Config             string `yaml:"config"`
	} `yaml:"providers"`
	Schedules []struct {
		Name      string `yaml:"name"`
		TimeZone  string `yaml:"timezone"`
		IsSpecial bool   `yaml:"is_special"`
		Matrix    string `yaml:"matrix"`
	} `yaml:"schedules"`
	VMConfigs []struct {
		Name            string `yaml:"name"`
		Provider        string `yaml:"provider"`
		DefaultSchedule string `yaml:"default_schedule"`
		IsSpecial       bool   `yaml:"is_special"`
		Default         bool   `yaml:"default"`
		Extras          string `yaml:"extras"`
	} `yaml:"vmconfigs"`
}

// Seed loads the optional seed file named in the config. A missing
// setting is fine; a broken file is an error.
func Seed() error {
	path := config.Config.Seed.Path
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed reading seed file: %w", err)
	}

	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed parsing seed file: %w", err)
	}

	for _, name := range data.TimeZones {
		if _, err := schedule.CreateTimeZone(name); err != nil {
			return fmt.Errorf("failed seeding timezone %s: %w", name, err)
		}
	}

	for _, p := range data.Projects {
		if _, err := project.GetByName(p.Name); err == nil {
			continue
		}
		if err := project.Create(&project.Project{Name: p.Name, Email: p.Email}); err != nil {
			return fmt.Errorf("failed seeding project %s: %w", p.Name, err)
		}
	}

	if err := seedRolesAndUsers(data); err != nil {
		return err
	}

	for _, p := range data.Providers {
		if _, err := provider.GetByName(p.Name); err == nil {
			continue
		}
		newProvider := provider.Provider{
			Name:               p.Name,
			Kind:               provider.Kind(p.Kind),
			MaxOverrideSeconds: p.MaxOverrideSeconds,
			IsSpecial:          p.IsSpecial,
			Default:            p.Default,
			Config:             p.Config,
		}
		if err := provider.Create(&newProvider); err != nil {
			return fmt.Errorf("failed seeding provider %s: %w", p.Name, err)
		}
	}

	for _, s := range data.Schedules {
		if _, err := schedule.GetByName(s.Name); err == nil {
			continue
		}
		tz, err := schedule.CreateTimeZone(s.TimeZone)
		if err != nil {
			return fmt.Errorf("failed seeding schedule %s: %w", s.Name, err)
		}
		newSchedule := schedule.Schedule{
			Name:       s.Name,
			TimeZoneID: tz.ID,
			Matrix:     s.Matrix,
			IsSpecial:  s.IsSpecial,
		}
		if err := schedule.Create(&newSchedule); err != nil {
			return fmt.Errorf("failed seeding schedule %s: %w", s.Name, err)
		}
	}

	for _, c := range data.VMConfigs {
		if _, err := vmconfig.GetByName(c.Name); err == nil {
			continue
		}
		prov, err := provider.GetByName(c.Provider)
		if err != nil {
			return fmt.Errorf("failed seeding vm config %s: %w", c.Name, err)
		}

		var defaultScheduleID string
		if c.DefaultSchedule != "" {
			sched, err := schedule.GetByName(c.DefaultSchedule)
			if err != nil {
				return fmt.Errorf("failed seeding vm config %s: %w", c.Name, err)
			}
			defaultScheduleID = sched.ID
		}

		newConfig := vmconfig.VMConfig{
			Name:              c.Name,
			ProviderID:        prov.ID,
			DefaultScheduleID: defaultScheduleID,
			IsSpecial:         c.IsSpecial,
			Default:           c.Default,
			Extras:            c.Extras,
		}
		if err := vmconfig.Create(&newConfig); err != nil {
			return fmt.Errorf("failed seeding vm config %s: %w", c.Name, err)
		}
	}

	slog.Info("seed file loaded", "path", path)

	return nil
}

func seedRolesAndUsers(data seedData) error {
	db := user.GetUserDB()

	for _, r := range data.Roles {
		var existing user.Role
		db.Limit(1).Find(&existing, &user.Role{Name: r.Name})
		if existing.ID != "" {
			continue
		}

		var perms []user.Permission
		for _, name := range r.Permissions {
			var perm user.Permission
			db.Limit(1).Find(&perm, &user.Permission{Name: name})
			if perm.ID == "" {
				return fmt.Errorf("%w: %s", errUnknownSeedPermission, name)
			}
			perms = append(perms, perm)
		}

		newRole := user.Role{Name: r.Name, Permissions: perms}
		if res := db.Create(&newRole); res.Error != nil {
			return fmt.Errorf("failed seeding role %s: %w", r.Name, res.Error)
		}
	}

	for _, u := range data.Users {
		if _, err := user.GetByUsername(u.Username); err == nil {
			continue
		}

		var roles []user.Role
		for _, name := range u.Roles {
			var role user.Role
			db.Limit(1).Find(&role, &user.Role{Name: name})
			if role.ID == "" {
				return fmt.Errorf("%w: %s", errUnknownSeedRole, name)
			}
			roles = append(roles, role)
		}

		var projects []project.Project
		for _, name := range u.Projects {
			prj, err := project.GetByName(name)
			if err != nil {
				return fmt.Errorf("failed seeding user %s: %w", u.Username, err)
			}
			projects = append(projects, *prj)
		}

		newUser := user.User{
			Username: u.Username,
			Email:    u.Email,
			Roles:    roles,
			Projects: projects,
		}
		if err := user.Create(&newUser); err != nil {
			return fmt.Errorf("failed seeding user %s: %w", u.Username, err)
		}
	}

	return nil
}
