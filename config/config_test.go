package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/config"
)

func validParams() *config.Params {
	return &config.Params{
		MeshSource: "mesh.dat",
		TMax:       200,
		PRef:       1e5,
		RhoRef:     1000,
		GammaEoS:   1.4,
		Mu:         0.06,
		PA:         1.35e5,
		PInit:      1e5,
		DefaultProps: config.PropsConfig{
			Thickness: 3e-3, Porosity: 0.7, K1: 3e-10, K2: 3e-10,
			PrincipalDir: [3]float64{1, 0, 0}, Viscosity: 0.06,
		},
		NPics: 10,
	}
}

func TestValidateAcceptsWellFormedParams(t *testing.T) {
	p := validParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 12, p.NPics) // clamped up to the next multiple of 4
}

func TestValidateRejectsPAbelowPInit(t *testing.T) {
	p := validParams()
	p.PA = p.PInit
	require.Error(t, p.Validate())
}

func TestValidateClampsNPics(t *testing.T) {
	p := validParams()
	p.NPics = 1000
	require.NoError(t, p.Validate())
	assert.Equal(t, 100, p.NPics)
}

func TestValidateRequiresInletSeedsInInteractiveMode(t *testing.T) {
	p := validParams()
	p.InteractiveMode = "replace_inlets"
	require.Error(t, p.Validate())
	p.InletSeeds = [][3]float64{{0, 0, 0}}
	p.InletRadius = 0.01
	require.NoError(t, p.Validate())
}

func TestValidateRejectsRestartWithoutSnapshotID(t *testing.T) {
	p := validParams()
	p.Restart = true
	require.Error(t, p.Validate())
}

func TestLoadParsesYAML(t *testing.T) {
	data := []byte(`
mesh_source: mesh.dat
t_max: 200
p_ref: 100000
rho_ref: 1000
gamma_eos: 1.4
mu: 0.06
p_a: 135000
p_init: 100000
default_props:
  thickness: 0.003
  porosity: 0.7
  k1: 3.0e-10
  k2: 3.0e-10
  principal_dir: [1, 0, 0]
  viscosity: 0.06
n_pics: 8
`)
	p, err := config.Load(data)
	require.NoError(t, err)
	assert.Equal(t, "mesh.dat", p.MeshSource)
	assert.Equal(t, 8, p.NPics)
}
