package main

import (
	"github.com/chamadasimples/chamada/core/attendance"
)

// register initializes the global teacher profile; all schools are wiped.
func (cli *commandLine) register(name, pwd, subject string) error {
	return cli.store.Register(attendance.Registration{
		TeacherName:    name,
		Password:       pwd,
		DefaultSubject: subject,
	})
}
