package resources

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// NewKubeClient builds a clientset from a kubeconfig path; an empty path uses
// the default loading rules.
func NewKubeClient(kubeconfig string) (kubernetes.Interface, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}
	client, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes client: %w", err)
	}
	return client, nil
}

// KubeFeature is the namespaces -> pods -> detail drilldown of a cluster.
func KubeFeature(client kubernetes.Interface) Feature {
	return Feature{
		Key:        'K',
		Path:       "cluster/namespaces",
		Title:      "Namespaces",
		Permission: "cluster:namespaces",
		Icon:       "ns",
		Masters: []Source{
			&NamespaceSource{Client: client},
			&PodSource{Client: client},
		},
		Detail: true,
	}
}

type NamespaceSource struct {
	Client kubernetes.Interface
	Now    func() time.Time
}

func (s *NamespaceSource) Name() string { return "Namespace" }

func (s *NamespaceSource) Fetch(ctx context.Context, _ *Record) ([]Record, error) {
	list, err := s.Client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	records := make([]Record, 0, len(list.Items))
	for i := range list.Items {
		records = append(records, s.record(&list.Items[i]))
	}
	return records, nil
}

func (s *NamespaceSource) Find(ctx context.Context, id string) (Record, error) {
	ns, err := s.Client.CoreV1().Namespaces().Get(ctx, id, metav1.GetOptions{})
	if err != nil {
		return Record{}, fmt.Errorf("namespace %s: %w", id, kubeErr(err))
	}
	return s.record(ns), nil
}

func (s *NamespaceSource) Remove(ctx context.Context, r Record) error {
	name, _ := r.ID.(string)
	if err := s.Client.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("delete namespace %s: %w", name, kubeErr(err))
	}
	return nil
}

func (s *NamespaceSource) record(ns *corev1.Namespace) Record {
	return Record{
		ID:     ns.Name,
		Name:   ns.Name,
		Kind:   "Namespace",
		Status: string(ns.Status.Phase),
		Age:    formatAge(ns.CreationTimestamp, s.Now),
		Labels: sortedLabels(ns.Labels),
	}
}

// PodSource lists the pods of the selected namespace.
type PodSource struct {
	Client kubernetes.Interface
	Now    func() time.Time
}

func (s *PodSource) Name() string { return "Pod" }

func (s *PodSource) Fetch(ctx context.Context, parent *Record) ([]Record, error) {
	if parent == nil {
		return nil, nil
	}
	namespace := parent.Name
	list, err := s.Client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods in %s: %w", namespace, err)
	}
	records := make([]Record, 0, len(list.Items))
	for i := range list.Items {
		records = append(records, s.record(&list.Items[i]))
	}
	return records, nil
}

func (s *PodSource) TableColumns() []TableColumn {
	return []TableColumn{
		{Name: "NAME", Width: 36},
		{Name: "READY", Width: 7},
		{Name: "STATUS", Width: 12},
		{Name: "RESTARTS", Width: 9},
		{Name: "AGE", Width: 6},
	}
}

func (s *PodSource) TableRow(r Record) []string {
	ready, _ := r.Field("Ready")
	restarts, _ := r.Field("Restarts")
	return []string{r.Name, ready, r.Status, restarts, r.Age}
}

func (s *PodSource) record(pod *corev1.Pod) Record {
	ready, restarts := 0, 0
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts += int(cs.RestartCount)
	}
	status := string(pod.Status.Phase)
	if pod.DeletionTimestamp != nil {
		status = "Terminating"
	}
	fields := []Field{
		{Name: "Ready", Value: fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers))},
		{Name: "Restarts", Value: strconv.Itoa(restarts)},
		{Name: "Node", Value: pod.Spec.NodeName},
		{Name: "IP", Value: pod.Status.PodIP},
	}
	for _, c := range pod.Spec.Containers {
		fields = append(fields, Field{Name: "Container " + c.Name, Value: c.Image})
	}
	return Record{
		ID:     pod.Name,
		Name:   pod.Name,
		Kind:   "Pod",
		Status: status,
		Age:    formatAge(pod.CreationTimestamp, s.Now),
		Labels: sortedLabels(pod.Labels),
		Fields: fields,
		Parent: pod.Namespace,
	}
}

func sortedLabels(labels map[string]string) []string {
	out := make([]string, 0, len(labels))
	for k, v := range labels {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// formatAge renders the age in the "3m", "6h", "2d" form parseAge reads.
func formatAge(created metav1.Time, now func() time.Time) string {
	if created.IsZero() {
		return ""
	}
	if now == nil {
		now = time.Now
	}
	d := now().Sub(created.Time)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// kubeErr maps API not-found errors onto ErrNotFound.
func kubeErr(err error) error {
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
