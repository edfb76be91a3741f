/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"io"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/launcher"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/version"
)

const (
	// appName is the name shared by the service account and RBAC objects.
	appName = "falconeri"

	postgresUser   = "postgres"
	postgresDBName = "falconeri"
	postgresImage  = "postgres:16"

	// defaultImage is the released falconerid image; the deployed tag always
	// matches the CLI version so client and server agree on the API.
	defaultImage = "ghcr.io/amd-aig-aima/falconeri"

	// passwordLength is the length of the generated Postgres password.
	passwordLength = 32

	credentialsVolume = "falconeri-credentials"
	postgresVolume    = "data"

	// pgData keeps the cluster files in a subdirectory of the volume, away
	// from the lost+found directory some provisioners create at the root.
	pgData = "/var/lib/postgresql/data/pgdata"
)

// deployConfig carries the knobs of a falconeri deployment. The zero value is
// not usable; start from prodDeployConfig or devDeployConfig.
type deployConfig struct {
	Namespace          string
	Image              string
	PostgresStorage    string
	PostgresMemory     string
	PostgresCPU        string
	FalconeridReplicas int32
	FalconeridMemory   string
	FalconeridCPU      string
}

// prodDeployConfig returns the defaults for a production cluster.
func prodDeployConfig() deployConfig {
	return deployConfig{
		Image:              defaultImage + ":" + version.Version,
		PostgresStorage:    "10Gi",
		PostgresMemory:     "1Gi",
		PostgresCPU:        "500m",
		FalconeridReplicas: 2,
		FalconeridMemory:   "256Mi",
		FalconeridCPU:      "450m",
	}
}

// devDeployConfig returns small-footprint defaults for local clusters. The
// image is expected to have been built straight into the cluster.
func devDeployConfig() deployConfig {
	return deployConfig{
		Image:              "falconeri:latest",
		PostgresStorage:    "100Mi",
		PostgresMemory:     "256Mi",
		PostgresCPU:        "100m",
		FalconeridReplicas: 1,
		FalconeridMemory:   "64Mi",
		FalconeridCPU:      "100m",
	}
}

// deployManifests renders every object of a falconeri deployment except the
// secret, in apply order. The secret is handled separately because an
// existing password must never be overwritten.
func deployManifests(cfg *deployConfig) ([]ctrlclient.Object, error) {
	pvc, err := postgresVolumeClaim(cfg)
	if err != nil {
		return nil, err
	}
	postgres, err := postgresDeployment(cfg)
	if err != nil {
		return nil, err
	}
	falconerid, err := falconeridDeployment(cfg)
	if err != nil {
		return nil, err
	}
	return []ctrlclient.Object{
		serviceAccount(cfg),
		role(cfg),
		roleBinding(cfg),
		pvc,
		postgres,
		postgresService(cfg),
		falconerid,
		falconeridService(cfg),
	}, nil
}

// secretManifest renders the shared credential secret. POSTGRES_PASSWORD
// feeds the Postgres container and the CLI; the remaining keys mount as the
// per-item files falconerid and the workers read.
func secretManifest(cfg *deployConfig, password string) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Secret",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, kubernetes.SecretName, ""),
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{
			kubernetes.PasswordKey: password,
			"host":                 kubernetes.PostgresName,
			"port":                 strconv.Itoa(kubernetes.PostgresPort),
			"dbname":               postgresDBName,
			"user":                 postgresUser,
			"password":             password,
		},
	}
}

func serviceAccount(cfg *deployConfig) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ServiceAccount",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, appName, ""),
	}
}

// role grants falconerid what the launcher and the babysitter need: manage
// worker jobs and observe their pods.
func role(cfg *deployConfig) *rbacv1.Role {
	return &rbacv1.Role{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Role",
			APIVersion: rbacv1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, appName, ""),
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{"batch"},
				Resources: []string{"jobs"},
				Verbs:     []string{"get", "list", "watch", "create", "delete"},
			},
			{
				APIGroups: []string{""},
				Resources: []string{"pods"},
				Verbs:     []string{"get", "list", "watch"},
			},
		},
	}
}

func roleBinding(cfg *deployConfig) *rbacv1.RoleBinding {
	return &rbacv1.RoleBinding{
		TypeMeta: metav1.TypeMeta{
			Kind:       "RoleBinding",
			APIVersion: rbacv1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, appName, ""),
		Subjects: []rbacv1.Subject{{
			Kind:      rbacv1.ServiceAccountKind,
			Name:      appName,
			Namespace: cfg.Namespace,
		}},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "Role",
			Name:     appName,
		},
	}
}

func postgresVolumeClaim(cfg *deployConfig) (*corev1.PersistentVolumeClaim, error) {
	storage, err := resource.ParseQuantity(cfg.PostgresStorage)
	if err != nil {
		return nil, fmt.Errorf("invalid storage quantity %q: %w", cfg.PostgresStorage, err)
	}
	return &corev1.PersistentVolumeClaim{
		TypeMeta: metav1.TypeMeta{
			Kind:       "PersistentVolumeClaim",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, kubernetes.PostgresName, ""),
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{corev1.ResourceStorage: storage},
			},
		},
	}, nil
}

func postgresDeployment(cfg *deployConfig) (*appsv1.Deployment, error) {
	requests, err := resourceList(cfg.PostgresMemory, cfg.PostgresCPU)
	if err != nil {
		return nil, err
	}
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Deployment",
			APIVersion: appsv1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, kubernetes.PostgresName, kubernetes.PostgresName),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			// The volume is ReadWriteOnce; a rolling update would deadlock
			// waiting for the old pod to release it.
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RecreateDeploymentStrategyType,
			},
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{kubernetes.AppLabel: kubernetes.PostgresName},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: podLabels(kubernetes.PostgresName),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  "postgres",
						Image: postgresImage,
						Env: []corev1.EnvVar{
							{Name: "POSTGRES_DB", Value: postgresDBName},
							{
								Name: kubernetes.PasswordKey,
								ValueFrom: &corev1.EnvVarSource{
									SecretKeyRef: &corev1.SecretKeySelector{
										LocalObjectReference: corev1.LocalObjectReference{Name: kubernetes.SecretName},
										Key:                  kubernetes.PasswordKey,
									},
								},
							},
							{Name: "PGDATA", Value: pgData},
						},
						Ports: []corev1.ContainerPort{{
							Name:          "postgres",
							ContainerPort: kubernetes.PostgresPort,
						}},
						Resources: corev1.ResourceRequirements{Requests: requests},
						VolumeMounts: []corev1.VolumeMount{{
							Name:      postgresVolume,
							MountPath: "/var/lib/postgresql/data",
						}},
					}},
					Volumes: []corev1.Volume{{
						Name: postgresVolume,
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
								ClaimName: kubernetes.PostgresName,
							},
						},
					}},
				},
			},
		},
	}, nil
}

func postgresService(cfg *deployConfig) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Service",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, kubernetes.PostgresName, kubernetes.PostgresName),
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{kubernetes.AppLabel: kubernetes.PostgresName},
			Ports: []corev1.ServicePort{{
				Name: "postgres",
				Port: kubernetes.PostgresPort,
			}},
		},
	}
}

func falconeridDeployment(cfg *deployConfig) (*appsv1.Deployment, error) {
	requests, err := resourceList(cfg.FalconeridMemory, cfg.FalconeridCPU)
	if err != nil {
		return nil, err
	}
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Deployment",
			APIVersion: appsv1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, kubernetes.ServiceName, kubernetes.ServiceName),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(cfg.FalconeridReplicas),
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{kubernetes.AppLabel: kubernetes.ServiceName},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: podLabels(kubernetes.ServiceName),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: appName,
					Containers: []corev1.Container{{
						Name:            kubernetes.ServiceName,
						Image:           cfg.Image,
						ImagePullPolicy: corev1.PullIfNotPresent,
						Env: []corev1.EnvVar{{
							Name: commonconfig.NamespaceEnv,
							ValueFrom: &corev1.EnvVarSource{
								FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.namespace"},
							},
						}},
						Ports: []corev1.ContainerPort{{
							Name:          "api",
							ContainerPort: commonconfig.DefaultServerPort,
						}},
						Resources: corev1.ResourceRequirements{Requests: requests},
						VolumeMounts: []corev1.VolumeMount{{
							Name:      credentialsVolume,
							MountPath: commonconfig.DefaultSecretPath,
							ReadOnly:  true,
						}},
					}},
					Volumes: []corev1.Volume{{
						Name: credentialsVolume,
						VolumeSource: corev1.VolumeSource{
							Secret: &corev1.SecretVolumeSource{SecretName: kubernetes.SecretName},
						},
					}},
				},
			},
		},
	}, nil
}

func falconeridService(cfg *deployConfig) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Service",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: objectMeta(cfg, kubernetes.ServiceName, kubernetes.ServiceName),
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{kubernetes.AppLabel: kubernetes.ServiceName},
			Ports: []corev1.ServicePort{{
				Name: "api",
				Port: commonconfig.DefaultServerPort,
			}},
		},
	}
}

func objectMeta(cfg *deployConfig, name, app string) metav1.ObjectMeta {
	labels := map[string]string{launcher.CreatedByLabel: launcher.CreatedByValue}
	if app != "" {
		labels[kubernetes.AppLabel] = app
	}
	return metav1.ObjectMeta{
		Name:      name,
		Namespace: cfg.Namespace,
		Labels:    labels,
	}
}

func podLabels(app string) map[string]string {
	return map[string]string{
		kubernetes.AppLabel:     app,
		launcher.CreatedByLabel: launcher.CreatedByValue,
	}
}

func resourceList(memory, cpu string) (corev1.ResourceList, error) {
	memoryQuantity, err := resource.ParseQuantity(memory)
	if err != nil {
		return nil, fmt.Errorf("invalid memory quantity %q: %w", memory, err)
	}
	cpuQuantity, err := resource.ParseQuantity(cpu)
	if err != nil {
		return nil, fmt.Errorf("invalid cpu quantity %q: %w", cpu, err)
	}
	return corev1.ResourceList{
		corev1.ResourceMemory: memoryQuantity,
		corev1.ResourceCPU:    cpuQuantity,
	}, nil
}

// renderManifests writes the objects as a multi-document YAML stream, the
// same shape kubectl accepts.
func renderManifests(out io.Writer, objects []ctrlclient.Object) error {
	for i, obj := range objects {
		if i > 0 {
			if _, err := fmt.Fprintln(out, "---"); err != nil {
				return err
			}
		}
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", obj.GetName(), err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}
