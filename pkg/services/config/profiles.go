package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rps-tools/report-atlas/pkg/store/relational"
	"github.com/snowflakedb/gosnowflake"
	"gopkg.in/ini.v1"
)

// ProfileRegistry reads warehouse credentials from an ini file, one section per profile:
//
//	[finance]
//	driver = pgx
//	host = db.internal
//	port = 5432
//	database = erp
//	user = report
//	password = secret
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetSettings(ctx context.Context, profile string) (relational.Settings, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetSettings(_ context.Context, profile string) (relational.Settings, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return relational.Settings{}, fmt.Errorf("profile %s not found", profile)
	}

	driver := section.Key("driver").MustString(relational.DriverPostgres)
	dsn, err := composeDSN(driver, section)
	if err != nil {
		return relational.Settings{}, fmt.Errorf("profile %s: %w", profile, err)
	}
	return relational.Settings{Driver: driver, DSN: dsn}, nil
}

func composeDSN(driver string, section *ini.Section) (string, error) {
	if dsn := section.Key("dsn").String(); dsn != "" {
		return dsn, nil
	}

	host := section.Key("host").String()
	database := section.Key("database").String()
	user := section.Key("user").String()
	password := section.Key("password").String()

	switch driver {
	case relational.DriverPostgres:
		if host == "" || database == "" {
			return "", fmt.Errorf("host and database are required")
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(user, password),
			Host:     net.JoinHostPort(host, section.Key("port").MustString("5432")),
			Path:     "/" + database,
			RawQuery: url.Values{"sslmode": {section.Key("sslmode").MustString("prefer")}}.Encode(),
		}
		return u.String(), nil

	case relational.DriverSnowflake:
		return gosnowflake.DSN(&gosnowflake.Config{
			Account:   section.Key("account").String(),
			User:      user,
			Password:  password,
			Database:  database,
			Schema:    section.Key("schema").String(),
			Warehouse: section.Key("warehouse").String(),
			Role:      section.Key("role").String(),
		})

	case relational.DriverDatabricks:
		token := section.Key("token").String()
		httpPath := section.Key("http_path").String()
		if host == "" || token == "" || httpPath == "" {
			return "", fmt.Errorf("host, token and http_path are required")
		}
		return fmt.Sprintf("token:%s@%s:%s/%s",
			token, host, section.Key("port").MustString("443"), strings.TrimPrefix(httpPath, "/")), nil

	case relational.DriverDuckDB:
		return section.Key("path").MustString(database), nil

	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
