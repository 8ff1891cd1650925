package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"mico/internal/api"
	pkgstrings "mico/pkg/strings"
)

// Table views over the API models. Each type marshals exactly like the model
// it wraps, so the same value serves table, json and yaml output.

// ApplicationTable lists applications.
type ApplicationTable []api.Application

func (t ApplicationTable) Headers(wide bool) []string {
	h := []string{"short name", "version", "name", "services"}
	if wide {
		h = append(h, "status", "owner", "description")
	}
	return h
}

func (t ApplicationTable) Rows(wide bool) [][]string {
	rows := make([][]string, 0, len(t))
	for _, app := range t {
		row := []string{app.ShortName, app.Version, app.Title(), strconv.Itoa(len(app.Services))}
		if wide {
			row = append(row, pkgstrings.OrPlaceholder(app.DeploymentStatus), pkgstrings.OrPlaceholder(app.Owner), pkgstrings.Cell(app.Description))
		}
		rows = append(rows, row)
	}
	return rows
}

// ApplicationDetail shows one application with the services it includes.
type ApplicationDetail api.Application

func (d ApplicationDetail) Headers(wide bool) []string {
	h := []string{"application", "version", "service", "service version"}
	if wide {
		h = append(h, "service name")
	}
	return h
}

func (d ApplicationDetail) Rows(wide bool) [][]string {
	app := api.Application(d)
	if len(app.Services) == 0 {
		row := []string{app.ShortName, app.Version, "-", "-"}
		if wide {
			row = append(row, "-")
		}
		return [][]string{row}
	}
	rows := make([][]string, 0, len(app.Services))
	for _, svc := range app.Services {
		row := []string{app.ShortName, app.Version, svc.ShortName, svc.Version}
		if wide {
			row = append(row, svc.Title())
		}
		rows = append(rows, row)
	}
	return rows
}

// ServiceTable lists services.
type ServiceTable []api.Service

func (t ServiceTable) Headers(wide bool) []string {
	h := []string{"short name", "version", "name"}
	if wide {
		h = append(h, "origin", "image", "description")
	}
	return h
}

func (t ServiceTable) Rows(wide bool) [][]string {
	rows := make([][]string, 0, len(t))
	for _, svc := range t {
		row := []string{svc.ShortName, svc.Version, svc.Title()}
		if wide {
			row = append(row, pkgstrings.OrPlaceholder(svc.ServiceCrawlingOrigin), pkgstrings.OrPlaceholder(svc.DockerImageURI), pkgstrings.Cell(svc.Description))
		}
		rows = append(rows, row)
	}
	return rows
}

// ServiceDetail shows one service version.
type ServiceDetail api.Service

func (d ServiceDetail) Headers(wide bool) []string {
	return ServiceTable{}.Headers(wide)
}

func (d ServiceDetail) Rows(wide bool) [][]string {
	return ServiceTable{api.Service(d)}.Rows(wide)
}

// InterfaceTable lists service interfaces.
type InterfaceTable []api.ServiceInterface

func (t InterfaceTable) Headers(wide bool) []string {
	h := []string{"name", "protocol", "ports"}
	if wide {
		h = append(h, "transport", "public dns", "description")
	}
	return h
}

func (t InterfaceTable) Rows(wide bool) [][]string {
	rows := make([][]string, 0, len(t))
	for _, iface := range t {
		ports := make([]string, 0, len(iface.Ports))
		for _, p := range iface.Ports {
			port := strconv.Itoa(p.Number)
			if p.TargetPort != 0 && p.TargetPort != p.Number {
				port = fmt.Sprintf("%d:%d", p.Number, p.TargetPort)
			}
			if p.Type != "" {
				port += "/" + p.Type
			}
			ports = append(ports, port)
		}
		row := []string{iface.Name, pkgstrings.OrPlaceholder(iface.Protocol), pkgstrings.OrPlaceholder(strings.Join(ports, ","))}
		if wide {
			row = append(row, pkgstrings.OrPlaceholder(iface.TransportProtocol), pkgstrings.OrPlaceholder(iface.PublicDNS), pkgstrings.Cell(iface.Description))
		}
		rows = append(rows, row)
	}
	return rows
}

// StatusTable shows the runtime status of a deployed application.
type StatusTable api.ApplicationStatus

func (s StatusTable) Headers(wide bool) []string {
	h := []string{"services", "pods", "replicas"}
	if wide {
		h = append(h, "errors")
	}
	return h
}

func (s StatusTable) Rows(wide bool) [][]string {
	row := []string{
		strconv.Itoa(s.TotalNumberOfMicoServices),
		strconv.Itoa(s.TotalNumberOfPods),
		fmt.Sprintf("%d/%d", s.TotalNumberOfAvailableReplicas, s.TotalNumberOfRequestedReplicas),
	}
	if wide {
		row = append(row, pkgstrings.OrPlaceholder(strings.Join(s.ErrorMessages, "; ")))
	}
	return [][]string{row}
}

// ModelTable lists the model definitions published by the backend.
type ModelTable map[string]json.RawMessage

type modelSchema struct {
	Type       string                     `json:"type"`
	Required   []string                   `json:"required"`
	Properties map[string]json.RawMessage `json:"properties"`
}

func (t ModelTable) Headers(wide bool) []string {
	h := []string{"model", "type", "properties"}
	if wide {
		h = append(h, "required")
	}
	return h
}

func (t ModelTable) Rows(wide bool) [][]string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		var schema modelSchema
		_ = json.Unmarshal(t[name], &schema)
		row := []string{name, pkgstrings.OrPlaceholder(schema.Type), strconv.Itoa(len(schema.Properties))}
		if wide {
			row = append(row, pkgstrings.OrPlaceholder(strings.Join(schema.Required, ",")))
		}
		rows = append(rows, row)
	}
	return rows
}
