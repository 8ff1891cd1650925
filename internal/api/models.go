package api

import "fmt"

// Embedded list keys used by the backend. Each collection is looked up by its
// primary key first and the fallback second.
const (
	ApplicationListKey         = "applicationList"
	ApplicationListFallbackKey = "micoApplicationWithServicesResponseDTOList"
	ServiceListKey             = "serviceList"
	ServiceListFallbackKey     = "micoServiceResponseDTOList"
	InterfaceListKey           = "serviceInterfaceList"
	InterfaceListFallbackKey   = "micoServiceInterfaceResponseDTOList"
)

// Application is a MICO application together with the services it includes.
type Application struct {
	Resource
	ShortName        string    `json:"shortName"`
	Version          string    `json:"version"`
	Name             string    `json:"name,omitempty"`
	Description      string    `json:"description,omitempty"`
	Contact          string    `json:"contact,omitempty"`
	Owner            string    `json:"owner,omitempty"`
	DeploymentStatus string    `json:"deploymentStatus,omitempty"`
	Services         []Service `json:"services,omitempty"`
}

// Title is the display name: the name when set, the short name otherwise.
func (a Application) Title() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ShortName
}

func (a Application) String() string {
	return fmt.Sprintf("%s@%s", a.ShortName, a.Version)
}

// Service is one version of a MICO service.
type Service struct {
	Resource
	ShortName             string             `json:"shortName"`
	Version               string             `json:"version"`
	Name                  string             `json:"name,omitempty"`
	Description           string             `json:"description,omitempty"`
	GitCloneURL           string             `json:"gitCloneUrl,omitempty"`
	DockerImageURI        string             `json:"dockerImageUri,omitempty"`
	ServiceCrawlingOrigin string             `json:"serviceCrawlingOrigin,omitempty"`
	Contact               string             `json:"contact,omitempty"`
	Owner                 string             `json:"owner,omitempty"`
	InternalDependencies  []string           `json:"internalDependencies,omitempty"`
	ExternalDependencies  []string           `json:"externalDependencies,omitempty"`
	Interfaces            []ServiceInterface `json:"serviceInterfaces,omitempty"`
}

// Key is the identity of a service version: short name and version joined by "-".
func (s Service) Key() string {
	return s.ShortName + "-" + s.Version
}

// Title is the display name: the name when set, the short name otherwise.
func (s Service) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ShortName
}

func (s Service) String() string {
	return fmt.Sprintf("%s@%s", s.ShortName, s.Version)
}

// ServiceInterface describes an interface a service exposes.
type ServiceInterface struct {
	Resource
	Name              string        `json:"serviceInterfaceName"`
	Description       string        `json:"description,omitempty"`
	Protocol          string        `json:"protocol,omitempty"`
	TransportProtocol string        `json:"transportProtocol,omitempty"`
	PublicDNS         string        `json:"publicDns,omitempty"`
	Ports             []ServicePort `json:"ports,omitempty"`
}

// ServicePort is an exposed port of a service interface.
type ServicePort struct {
	Number     int    `json:"number"`
	Type       string `json:"type,omitempty"`
	TargetPort int    `json:"targetPort,omitempty"`
}

// ApplicationStatus is the aggregated runtime status of a deployed application.
type ApplicationStatus struct {
	Resource
	TotalNumberOfMicoServices      int              `json:"totalNumberOfMicoServices"`
	TotalNumberOfPods              int              `json:"totalNumberOfPods"`
	TotalNumberOfAvailableReplicas int              `json:"totalNumberOfAvailableReplicas"`
	TotalNumberOfRequestedReplicas int              `json:"totalNumberOfRequestedReplicas"`
	ServiceStatuses                []map[string]any `json:"serviceStatuses,omitempty"`
	ErrorMessages                  []string         `json:"errorMessages,omitempty"`
}

// VersionRequest is the body of a promote request.
type VersionRequest struct {
	Version string `json:"version"`
}
