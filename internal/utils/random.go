package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/skill-tracker/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

var departments = []string{"Engineering", "Sales", "Finance", "HR", "Operations", "Support"}

// SampleSkills pairs each seeded skill name with the course that certifies it.
var SampleSkills = map[string]string{
	"Go":          "Go Fundamentals",
	"PostgreSQL":  "Relational Databases",
	"Docker":      "Containers in Practice",
	"Kubernetes":  "Cluster Operations",
	"Excel":       "Spreadsheet Modelling",
	"Negotiation": "Sales Negotiation",
	"Accounting":  "Financial Accounting I",
}

func pick[T any](items []T) T {
	return items[mrand.IntN(len(items))]
}

func GenerateRandomChineseName() string {
	var b strings.Builder
	b.WriteString(pick(commonSurnames))
	for range mrand.IntN(2) + 1 {
		b.WriteString(pick(commonNameCharacters))
	}
	return b.String()
}

// GenerateEmailLocalPart romanizes a Chinese name and appends a short number, e.g. "zhangwei42".
func GenerateEmailLocalPart(chineseName string) string {
	var b strings.Builder
	for _, syllable := range pinyin.LazyConvert(chineseName, nil) {
		b.WriteString(syllable)
	}
	fmt.Fprintf(&b, "%d", mrand.IntN(1000))
	return b.String()
}

func GenerateRandomEmployee(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Email:        GenerateEmailLocalPart(fullName) + "@" + emailDomainName,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Department:   pick(departments),
		Role:         domain.RoleEmployee,
	}, nil
}

func GenerateRandomSkillFields() domain.SkillFields {
	names := make([]string, 0, len(SampleSkills))
	for name := range SampleSkills {
		names = append(names, name)
	}
	name := pick(names)
	score := mrand.IntN(101)

	return domain.SkillFields{
		SkillName:       name,
		CourseName:      SampleSkills[name],
		CertificateLink: fmt.Sprintf("https://certificates.example.com/%s/%06d", strings.ToLower(name), mrand.IntN(1000000)),
		Score:           &score,
	}
}

// The generators below hand out credentials, so they draw from crypto/rand.

func GenerateRandomOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

var letters = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]byte, length)
	alphabet := big.NewInt(int64(len(letters)))
	for i := range password {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			panic(err)
		}
		password[i] = letters[n.Int64()]
	}
	return string(password)
}
