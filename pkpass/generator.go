// Package pkpass assembles and signs Apple Wallet .pkpass archives
// from the embedded visual template and a pass row's live data.
package pkpass

import (
	"archive/zip"
	"bytes"
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io/fs"

	"supapass/contribution"
	"supapass/models"

	"github.com/fullsailor/pkcs7"
	"go.uber.org/zap"
)

const (
	organizationCore        = "Supabase Core Member"
	organizationContributor = "Supabase Contributor"

	foregroundColor = "rgb(255, 255, 255)"
	backgroundColor = "rgb(30, 30, 30)"
	labelColor      = "rgb(62, 207, 142)"
)

// Generator signs pass archives with organization-provided certificate
// material. It is built once at startup and shared by all requests.
type Generator struct {
	wwdrCert           *x509.Certificate
	signerCert         *x509.Certificate
	signerKey          crypto.PrivateKey
	teamIdentifier     string
	passTypeIdentifier string
	webServiceURL      string
	logger             *zap.Logger
}

// NewGenerator decodes and parses the base64-encoded PEM certificate
// material from the configuration. Any defect in the material is a
// startup error, not a per-request one.
func NewGenerator(config models.Config, logger *zap.Logger) (*Generator, error) {
	wwdrCert, err := parseCertificate(config.WWDRCert)
	if err != nil {
		return nil, fmt.Errorf("parsing WWDR certificate: %w", err)
	}
	signerCert, err := parseCertificate(config.SignerCert)
	if err != nil {
		return nil, fmt.Errorf("parsing signer certificate: %w", err)
	}
	signerKey, err := parsePrivateKey(config.SignerKey, config.SignerKeyPassphrase)
	if err != nil {
		return nil, fmt.Errorf("parsing signer key: %w", err)
	}

	return &Generator{
		wwdrCert:           wwdrCert,
		signerCert:         signerCert,
		signerKey:          signerKey,
		teamIdentifier:     config.TeamIdentifier,
		passTypeIdentifier: config.PassTypeIdentifier,
		webServiceURL:      config.WebServiceURL,
		logger:             logger,
	}, nil
}

// Generate produces the signed .pkpass archive for a pass row,
// personalized with the owner's display name.
func (g *Generator) Generate(pass models.Pass, userName string) ([]byte, error) {
	passJSON, err := json.Marshal(g.definition(pass, userName))
	if err != nil {
		return nil, fmt.Errorf("encoding pass.json: %w", err)
	}

	files := map[string][]byte{"pass.json": passJSON}
	if err := fs.WalkDir(assets, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := assets.ReadFile(path)
		if err != nil {
			return err
		}
		files[d.Name()] = data
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading template assets: %w", err)
	}

	manifest := make(map[string]string, len(files))
	for name, data := range files {
		sum := sha1.Sum(data)
		manifest[name] = hex.EncodeToString(sum[:])
	}
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	signature, err := g.sign(manifestJSON)
	if err != nil {
		return nil, fmt.Errorf("signing manifest: %w", err)
	}

	files["manifest.json"] = manifestJSON
	files["signature"] = signature

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("writing archive entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("writing archive entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) definition(pass models.Pass, userName string) PassDefinition {
	organization := organizationContributor
	if pass.IsCoreMember {
		organization = organizationCore
	}

	passType := pass.PassTypeIdentifier
	if passType == "" {
		passType = g.passTypeIdentifier
	}

	return PassDefinition{
		FormatVersion:       1,
		PassTypeIdentifier:  passType,
		SerialNumber:        pass.SerialNumber,
		TeamIdentifier:      g.teamIdentifier,
		WebServiceURL:       g.webServiceURL,
		AuthenticationToken: pass.AuthenticationToken,
		OrganizationName:    organization,
		Description:         organization,
		LogoText:            organization,
		ForegroundColor:     foregroundColor,
		BackgroundColor:     backgroundColor,
		LabelColor:          labelColor,
		Barcodes: []Barcode{{
			Message:         "https://github.com/" + userName,
			Format:          "PKBarcodeFormatQR",
			MessageEncoding: "iso-8859-1",
		}},
		Generic: GenericPass{
			HeaderFields: []Field{
				{Key: "level", Label: "LEVEL", Value: contribution.LevelForPass(pass)},
			},
			PrimaryFields: []Field{
				{Key: "contributor", Label: "CONTRIBUTOR", Value: userName},
			},
			SecondaryFields: []Field{
				{Key: "prs", Label: "OPEN PRS", Value: pass.PullRequestsCount},
				{Key: "merged", Label: "MERGED PRS", Value: pass.MergedPullRequestsCount},
			},
			AuxiliaryFields: []Field{
				{Key: "issues", Label: "ISSUES", Value: pass.IssuesOpenedCount},
				{Key: "total", Label: "TOTAL", Value: pass.TotalContributionsCount},
			},
		},
	}
}

// sign produces the detached CMS signature Apple Wallet verifies
// against the manifest, with the WWDR intermediate in the chain.
func (g *Generator) sign(manifest []byte) ([]byte, error) {
	signed, err := pkcs7.NewSignedData(manifest)
	if err != nil {
		return nil, err
	}
	if err := signed.AddSigner(g.signerCert, g.signerKey, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, err
	}
	signed.AddCertificate(g.wwdrCert)
	signed.Detach()
	return signed.Finish()
}

func parseCertificate(encoded string) (*x509.Certificate, error) {
	block, err := decodePEM(encoded)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(block.Bytes)
}

func parsePrivateKey(encoded, passphrase string) (crypto.PrivateKey, error) {
	block, err := decodePEM(encoded)
	if err != nil {
		return nil, err
	}

	der := block.Bytes
	if x509.IsEncryptedPEMBlock(block) {
		der, err = x509.DecryptPEMBlock(block, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("decrypting key: %w", err)
		}
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("unsupported private key format: %w", err)
	}
	return key, nil
}

func decodePEM(encoded string) (*pem.Block, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	return block, nil
}
